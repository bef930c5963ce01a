package steps

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/projectdiscovery/gologger"

	"github.com/FOUEN/feishin-optimize/internal/discover"
	"github.com/FOUEN/feishin-optimize/internal/rewrite"
)

type iconsStep struct{}

// Icons rewrites monolithic icon imports into per-icon imports.
func Icons() Step {
	return &iconsStep{}
}

func (s *iconsStep) Name() string { return "icons" }

func (s *iconsStep) Description() string {
	return "Rewrite icon imports to per-icon modules"
}

func (s *iconsStep) Apply(ctx context.Context, env *Env) (Result, error) {
	icons := env.Profile.Icons
	res := Result{Step: s.Name(), Label: icons.Source + " files updated", Counted: true}

	files, err := discover.Files(ctx, env.FS, env.Root, discover.Options{
		Extensions: icons.Extensions,
		Skip:       icons.Skip,
		Scope:      env.Scope,
	})
	if err != nil {
		return res, fmt.Errorf("discover source files: %w", err)
	}
	rw := rewrite.New(icons.Source, icons.Replacement)
	gologger.Verbose().Msgf("Scanning %d source files for %s imports", len(files), rw.Source())

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		before, err := env.read(ctx, f.URL, f.Path)
		if err != nil {
			return res, err
		}
		after, changed := rw.Rewrite(before)
		if !changed {
			continue
		}
		gologger.Verbose().Msgf("%s: %d import statements moved to %s (%s -> %s)",
			f.Path, len(rw.Find(before)), rw.Replacement(),
			humanize.Bytes(uint64(len(before))), humanize.Bytes(uint64(len(after))))

		if err := env.commit(ctx, f.URL, f.Path, before, after); err != nil {
			return res, err
		}
		res.Count++
	}
	res.Changed = res.Count > 0
	return res, nil
}
