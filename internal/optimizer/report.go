package optimizer

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/FOUEN/feishin-optimize/internal/steps"
)

// Report collects the results of a run in step order.
type Report struct {
	DryRun  bool
	Results []steps.Result
}

// Changed reports whether any step changed (or, in dry-run mode, would
// change) the tree.
func (r *Report) Changed() bool {
	for _, res := range r.Results {
		if res.Changed {
			return true
		}
	}
	return false
}

// Print writes one "label: value" line per step. Changed values are
// highlighted when stdout is a terminal.
func (r *Report) Print(w io.Writer) {
	changed := color.New(color.FgGreen)
	for _, res := range r.Results {
		value := res.Value()
		if res.Changed {
			value = changed.Sprint(value)
		}
		fmt.Fprintf(w, "%s: %s\n", res.Label, value)
	}
	if r.DryRun {
		fmt.Fprintln(w, "(dry run, no files were written)")
	}
}
