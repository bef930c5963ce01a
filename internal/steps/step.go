// Package steps defines the individual edits applied to a source tree and
// the registry that orders them.
package steps

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/FOUEN/feishin-optimize/internal/config"
	"github.com/FOUEN/feishin-optimize/internal/scope"
)

// Step is one independent edit of the source tree.
type Step interface {
	// Name returns the step identifier used on the command line.
	Name() string
	// Description returns a short description of what the step changes.
	Description() string
	// Apply performs the edit and reports what changed.
	Apply(ctx context.Context, env *Env) (Result, error)
}

// VersionLookup resolves the latest published version of a package.
type VersionLookup interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Env is everything a step may touch.
type Env struct {
	FS      afs.Service
	Root    string          // tree root, a path or afs URL
	Profile *config.Profile // never nil
	Scope   *scope.Scope    // restricts icon rewriting; nil means everything
	Lookup  VersionLookup   // nil disables registry lookups
	DryRun  bool            // render diffs instead of writing
	Diff    io.Writer       // receives dry-run diffs; nil discards them
}

// URL resolves a path relative to the tree root.
func (e *Env) URL(rel string) string {
	return url.Join(e.Root, rel)
}

// Result is the outcome of one step, reported as a single console line.
type Result struct {
	Step    string
	Label   string
	Changed bool
	Count   int  // number of changed files for counting steps
	Counted bool // report Count instead of Changed
}

// Value renders the reported value.
func (r Result) Value() string {
	if r.Counted {
		return fmt.Sprintf("%d", r.Count)
	}
	return fmt.Sprintf("%t", r.Changed)
}

// String renders the "label: value" report line.
func (r Result) String() string {
	return r.Label + ": " + r.Value()
}
