// Package optimizer runs the size optimization steps against a Feishin
// source tree.
package optimizer

import (
	"context"
	"io"

	"github.com/projectdiscovery/gologger"
	"github.com/viant/afs"

	"github.com/FOUEN/feishin-optimize/internal/config"
	"github.com/FOUEN/feishin-optimize/internal/registry"
	"github.com/FOUEN/feishin-optimize/internal/scope"
	"github.com/FOUEN/feishin-optimize/internal/steps"
)

// Optimizer applies a selection of steps to a source tree.
type Optimizer struct {
	profile  *config.Profile
	fs       afs.Service
	registry *steps.Registry
	lookup   steps.VersionLookup
	scope    *scope.Scope
	names    []string
	dryRun   bool
	diff     io.Writer
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithFS replaces the file service.
func WithFS(fs afs.Service) Option {
	return func(o *Optimizer) { o.fs = fs }
}

// WithLookup replaces the registry client. Passing nil disables lookups.
func WithLookup(lookup steps.VersionLookup) Option {
	return func(o *Optimizer) { o.lookup = lookup }
}

// WithRegistry replaces the set of available steps.
func WithRegistry(r *steps.Registry) Option {
	return func(o *Optimizer) { o.registry = r }
}

// WithSteps restricts the run to the named steps.
func WithSteps(names ...string) Option {
	return func(o *Optimizer) { o.names = names }
}

// WithScope restricts icon rewriting to the paths in s.
func WithScope(s *scope.Scope) Option {
	return func(o *Optimizer) { o.scope = s }
}

// WithDryRun renders diffs to w instead of writing files.
func WithDryRun(w io.Writer) Option {
	return func(o *Optimizer) {
		o.dryRun = true
		o.diff = w
	}
}

// New returns an Optimizer for profile. Unless overridden, it uses the local
// file system, every registered step, the profile's path scope and, when the
// profile is not offline, the profile's registry.
func New(profile *config.Profile, opts ...Option) *Optimizer {
	if profile == nil {
		profile = config.Default()
	}
	o := &Optimizer{
		profile:  profile,
		fs:       afs.New(),
		registry: steps.Default(),
		names:    profile.Steps,
	}
	if !profile.Registry.Offline {
		o.lookup = registry.New(profile.Registry.URL, profile.Registry.Timeout)
	}
	if s := scope.New(profile.Icons.Paths); !s.Empty() {
		o.scope = s
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run applies the selected steps to root, one after the other. The first
// failing step aborts the run; results of the steps before it are returned.
func (o *Optimizer) Run(ctx context.Context, root string) (*Report, error) {
	selected, err := o.registry.Select(o.names)
	if err != nil {
		return nil, err
	}
	if err := o.checkSource(ctx, root); err != nil {
		return nil, err
	}

	env := &steps.Env{
		FS:      o.fs,
		Root:    root,
		Profile: o.profile,
		Scope:   o.scope,
		Lookup:  o.lookup,
		DryRun:  o.dryRun,
		Diff:    o.diff,
	}

	report := &Report{DryRun: o.dryRun}
	for _, step := range selected {
		gologger.Info().Msgf("Running %s: %s", step.Name(), step.Description())
		res, err := step.Apply(ctx, env)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
