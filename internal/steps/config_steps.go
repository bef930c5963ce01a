package steps

import (
	"context"
	"strings"

	"github.com/projectdiscovery/gologger"

	"github.com/FOUEN/feishin-optimize/internal/config"
	"github.com/FOUEN/feishin-optimize/internal/textpatch"
)

// textStep applies a fixed rule set to one build configuration file.
type textStep struct {
	name        string
	description string
	file        func(*config.Profile) string
	rules       func() []textpatch.Rule
}

// ElectronBuilder narrows what electron-builder unpacks from the asar archive.
func ElectronBuilder() Step {
	return &textStep{
		name:        "builder",
		description: "Unpack only native binaries from the asar archive",
		file:        func(p *config.Profile) string { return p.Files.ElectronBuilder },
		rules:       textpatch.ElectronBuilder,
	}
}

// ElectronVite disables sourcemaps and enables tree shaking for the app build.
func ElectronVite() Step {
	return &textStep{
		name:        "vite",
		description: "Disable sourcemaps and enable rollup tree shaking",
		file:        func(p *config.Profile) string { return p.Files.ElectronVite },
		rules:       textpatch.ElectronVite,
	}
}

// RemoteVite disables sourcemaps for the remote control build.
func RemoteVite() Step {
	return &textStep{
		name:        "remote-vite",
		description: "Disable sourcemaps for the remote control build",
		file:        func(p *config.Profile) string { return p.Files.RemoteVite },
		rules:       textpatch.RemoteVite,
	}
}

func (s *textStep) Name() string        { return s.name }
func (s *textStep) Description() string { return s.description }

func (s *textStep) Apply(ctx context.Context, env *Env) (Result, error) {
	file := s.file(env.Profile)
	res := Result{Step: s.name, Label: file + " updated"}

	fileURL := env.URL(file)
	before, err := env.read(ctx, fileURL, file)
	if err != nil {
		return res, err
	}

	rules := s.rules()
	applied := textpatch.Applied(before, rules)
	after, changed := textpatch.Apply(before, rules)
	if !changed {
		gologger.Verbose().Msgf("%s: already patched", file)
		return res, nil
	}
	gologger.Verbose().Msgf("%s: applied %s", file, strings.Join(applied, ", "))

	if err := env.commit(ctx, fileURL, file, before, after); err != nil {
		return res, err
	}
	res.Changed = true
	return res, nil
}
