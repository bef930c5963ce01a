package cli

import (
	"fmt"
	"io"

	"github.com/FOUEN/feishin-optimize/internal/steps"
)

// PrintUsage prints the short help shown when no source path is given.
func PrintUsage(w io.Writer, r *steps.Registry) {
	fmt.Fprintln(w, "feishin-optimize - shrink a Feishin checkout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: feishin-optimize [flags] <source>")
	fmt.Fprintln(w, "Flags may also follow the source path.")
	fmt.Fprintln(w)
	PrintSteps(w, r)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'feishin-optimize -h' to see all flags.")
}

// PrintSteps lists the registered steps in the order they run.
func PrintSteps(w io.Writer, r *steps.Registry) {
	fmt.Fprintln(w, "Steps:")
	for _, s := range r.List() {
		fmt.Fprintf(w, "  %-12s %s\n", s.Name(), s.Description())
	}
}
