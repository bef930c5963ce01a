// Package config holds the immutable settings that drive an optimization run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Icons configures the import rewriter and the files it visits.
type Icons struct {
	Source      string   `yaml:"source"`      // monolithic package, e.g. "react-icons"
	Replacement string   `yaml:"replacement"` // per-icon package, e.g. "@react-icons/all-files"
	Extensions  []string `yaml:"extensions"`  // file extensions to rewrite
	Skip        []string `yaml:"skip"`        // directory names never descended into
	Paths       []string `yaml:"paths"`       // scope rules, see internal/scope
}

// Manifest configures the package.json step.
type Manifest struct {
	File string `yaml:"file"`
	// ExpectName is the package name the tree is expected to declare. A
	// mismatch is reported but does not stop the run.
	ExpectName string `yaml:"expect_name"`
}

// Registry configures the optional latest-version lookup.
type Registry struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Offline bool          `yaml:"offline"`
}

// Files names the build configuration documents, relative to the tree root.
type Files struct {
	ElectronBuilder string `yaml:"electron_builder"`
	ElectronVite    string `yaml:"electron_vite"`
	RemoteVite      string `yaml:"remote_vite"`
}

// Profile is the full configuration of a run.
type Profile struct {
	Icons    Icons    `yaml:"icons"`
	Manifest Manifest `yaml:"manifest"`
	Registry Registry `yaml:"registry"`
	Files    Files    `yaml:"files"`
	Steps    []string `yaml:"steps"` // empty selects every step
}

// Default returns the profile for a stock Feishin checkout.
func Default() *Profile {
	return &Profile{
		Icons: Icons{
			Source:      "react-icons",
			Replacement: "@react-icons/all-files",
			Extensions:  []string{".ts", ".tsx"},
			Skip:        []string{"node_modules", ".git", "dist", "out", "release", ".erb"},
		},
		Manifest: Manifest{
			File:       "package.json",
			ExpectName: "feishin",
		},
		Registry: Registry{
			URL:     "https://registry.npmjs.org",
			Timeout: 10 * time.Second,
		},
		Files: Files{
			ElectronBuilder: "electron-builder.yml",
			ElectronVite:    "electron.vite.config.ts",
			RemoteVite:      "remote.vite.config.ts",
		},
	}
}

// Load reads a YAML profile. Fields the file leaves out keep their defaults.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile on top of Default.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile for values no run could use.
func (p *Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Icons.Source) == "" {
		errs = append(errs, errors.New("icons.source must not be empty"))
	}
	if strings.TrimSpace(p.Icons.Replacement) == "" {
		errs = append(errs, errors.New("icons.replacement must not be empty"))
	}
	if p.Icons.Source == p.Icons.Replacement {
		errs = append(errs, errors.New("icons.source and icons.replacement must differ"))
	}
	if len(p.Icons.Extensions) == 0 {
		errs = append(errs, errors.New("icons.extensions must not be empty"))
	}
	for _, ext := range p.Icons.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("icons.extensions: %q must start with '.'", ext))
		}
	}
	if p.Manifest.File == "" {
		errs = append(errs, errors.New("manifest.file must not be empty"))
	}
	if p.Registry.Timeout < 0 {
		errs = append(errs, errors.New("registry.timeout must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid profile: %w", errors.Join(errs...))
	}
	return nil
}
