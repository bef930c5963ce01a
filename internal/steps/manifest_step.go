package steps

import (
	"context"
	"fmt"

	"github.com/projectdiscovery/gologger"

	"github.com/FOUEN/feishin-optimize/internal/manifest"
)

type manifestStep struct{}

// Manifest declares the per-icon package next to the monolithic one.
func Manifest() Step {
	return &manifestStep{}
}

func (s *manifestStep) Name() string { return "manifest" }

func (s *manifestStep) Description() string {
	return "Declare the per-icon package in package.json"
}

func (s *manifestStep) Apply(ctx context.Context, env *Env) (Result, error) {
	file := env.Profile.Manifest.File
	res := Result{Step: s.Name(), Label: file + " updated"}

	fileURL := env.URL(file)
	before, err := env.read(ctx, fileURL, file)
	if err != nil {
		return res, err
	}
	m, err := manifest.Parse([]byte(before))
	if err != nil {
		return res, fmt.Errorf("%s: %w", file, err)
	}

	pkg := env.Profile.Icons.Replacement
	if m.Has(pkg) {
		gologger.Verbose().Msgf("%s: %s already declared", file, pkg)
		return res, nil
	}

	fetched := s.lookup(ctx, env, pkg)
	declared := m.Declared(env.Profile.Icons.Source)
	changed, err := m.EnsureDependency(pkg, fetched, declared)
	if err != nil {
		return res, fmt.Errorf("%s: %w", file, err)
	}
	if !changed {
		gologger.Warning().Msgf("%s: no version found for %s, leaving dependencies untouched", file, pkg)
		return res, nil
	}
	gologger.Verbose().Msgf("%s: added %s@%s", file, pkg, m.Declared(pkg))

	out, err := m.Marshal()
	if err != nil {
		return res, fmt.Errorf("%s: %w", file, err)
	}
	if err := env.commit(ctx, fileURL, file, before, string(out)); err != nil {
		return res, err
	}
	res.Changed = true
	return res, nil
}

// lookup asks the registry for the latest version as a caret range. Any
// failure yields "" so that the caller falls back to the declared version.
func (s *manifestStep) lookup(ctx context.Context, env *Env, pkg string) string {
	if env.Lookup == nil {
		return ""
	}
	version, err := env.Lookup.LatestVersion(ctx, pkg)
	if err != nil {
		gologger.Warning().Msgf("Could not look up latest %s: %s", pkg, err)
		return ""
	}
	return "^" + version
}
