// Package manifest edits the dependency tables of an npm package.json.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalid is returned when the document is not a usable package manifest.
var ErrInvalid = errors.New("invalid package manifest")

// Sections holds the dependency tables consulted by Has and Declared, in
// priority order.
var Sections = []string{"dependencies", "devDependencies"}

const (
	// Dependencies is the table Add writes to.
	Dependencies = "dependencies"
	indent       = "    "
)

// Manifest is a decoded package.json. Unknown fields are preserved.
type Manifest struct {
	fields map[string]any
}

// Parse decodes a package.json document.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalid)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalid)
	}
	m := &Manifest{fields: fields}
	for _, section := range Sections {
		if _, err := m.section(section); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Name returns the package name, or "" when absent.
func (m *Manifest) Name() string {
	name, _ := m.fields["name"].(string)
	return name
}

// Has reports whether any dependency section declares pkg.
func (m *Manifest) Has(pkg string) bool {
	for _, section := range Sections {
		deps, _ := m.section(section)
		if _, ok := deps[pkg]; ok {
			return true
		}
	}
	return false
}

// Declared returns the version range declared for pkg in the first of
// sections that lists it. Sections defaults to Sections.
func (m *Manifest) Declared(pkg string, sections ...string) string {
	if len(sections) == 0 {
		sections = Sections
	}
	for _, section := range sections {
		deps, _ := m.section(section)
		if version, ok := deps[pkg].(string); ok && version != "" {
			return version
		}
	}
	return ""
}

// Add inserts pkg into dependencies, creating the table when needed. An
// existing entry is overwritten.
func (m *Manifest) Add(pkg, version string) error {
	deps, err := m.section(Dependencies)
	if err != nil {
		return err
	}
	if deps == nil {
		deps = map[string]any{}
		m.fields[Dependencies] = deps
	}
	deps[pkg] = version
	return nil
}

// Marshal encodes the manifest in canonical form: keys sorted at every level,
// four space indentation, no HTML escaping and a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(m.fields); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Manifest) section(name string) (map[string]any, error) {
	raw, ok := m.fields[name]
	if !ok || raw == nil {
		return nil, nil
	}
	deps, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an object", ErrInvalid, name)
	}
	return deps, nil
}

// EnsureDependency adds pkg with the first non-empty candidate version when
// pkg is not yet declared anywhere. It reports whether the manifest changed.
func (m *Manifest) EnsureDependency(pkg string, candidates ...string) (bool, error) {
	if m.Has(pkg) {
		return false, nil
	}
	for _, version := range candidates {
		if version == "" {
			continue
		}
		if err := m.Add(pkg, version); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
