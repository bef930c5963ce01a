package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()

	require.NoError(t, p.Validate())
	assert.Equal(t, "react-icons", p.Icons.Source)
	assert.Equal(t, "@react-icons/all-files", p.Icons.Replacement)
	assert.Equal(t, []string{".ts", ".tsx"}, p.Icons.Extensions)
	assert.Contains(t, p.Icons.Skip, "node_modules")
	assert.Equal(t, 10*time.Second, p.Registry.Timeout)
}

func TestParseOverridesDefaults(t *testing.T) {
	p, err := Parse([]byte(`
icons:
  extensions: [".tsx"]
  paths:
    - src/renderer/**
    - -src/**/*.d.ts
registry:
  timeout: 2s
  offline: true
steps: [icons, manifest]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{".tsx"}, p.Icons.Extensions)
	assert.Equal(t, []string{"src/renderer/**", "-src/**/*.d.ts"}, p.Icons.Paths)
	assert.Equal(t, 2*time.Second, p.Registry.Timeout)
	assert.True(t, p.Registry.Offline)
	assert.Equal(t, []string{"icons", "manifest"}, p.Steps)

	// untouched sections keep their defaults
	assert.Equal(t, "react-icons", p.Icons.Source)
	assert.Equal(t, "package.json", p.Manifest.File)
	assert.Equal(t, "electron-builder.yml", p.Files.ElectronBuilder)
}

func TestParseRejectsInvalidProfiles(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "icons: [",
		"empty source":      "icons:\n  source: ''\n",
		"same packages":     "icons:\n  source: x\n  replacement: x\n",
		"bad extension":     "icons:\n  extensions: [ts]\n",
		"negative timeout":  "registry:\n  timeout: -1s\n",
		"empty manifest":    "manifest:\n  file: ''\n",
		"no extensions set": "icons:\n  extensions: []\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manifest:\n  expect_name: my-fork\n"), 0644))

	p, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "my-fork", p.Manifest.ExpectName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
