package steps

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const fileMode = 0644

func (e *Env) read(ctx context.Context, fileURL, name string) (string, error) {
	data, err := e.FS.DownloadWithURL(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// commit writes after over the file, or renders a diff in dry-run mode.
func (e *Env) commit(ctx context.Context, fileURL, name, before, after string) error {
	if before == after {
		return nil
	}
	if e.DryRun {
		writeDiff(e.Diff, name, before, after)
		return nil
	}
	if err := e.FS.Upload(ctx, fileURL, fileMode, strings.NewReader(after)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// writeDiff prints removed and added lines of a line-level diff.
func writeDiff(w io.Writer, name, before, after string) {
	if w == nil {
		return
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintf(w, "--- %s\n+++ %s\n", name, name)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(w, prefix, line)
			if !strings.HasSuffix(line, "\n") {
				fmt.Fprintln(w)
			}
		}
	}
}
