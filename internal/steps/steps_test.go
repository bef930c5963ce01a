package steps

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/FOUEN/feishin-optimize/internal/config"
	"github.com/FOUEN/feishin-optimize/internal/scope"
)

type fakeLookup struct {
	version string
	err     error
	calls   int
}

func (f *fakeLookup) LatestVersion(ctx context.Context, name string) (string, error) {
	f.calls++
	return f.version, f.err
}

func newEnv(t *testing.T, files map[string]string) *Env {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return &Env{FS: afs.New(), Root: root, Profile: config.Default()}
}

func readFile(t *testing.T, env *Env, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.Root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := Default()

	var names []string
	for _, s := range r.List() {
		names = append(names, s.Name())
		assert.NotEmpty(t, s.Description())
	}
	assert.Equal(t, []string{"builder", "vite", "remote-vite", "manifest", "icons"}, names)

	s, err := r.Get("manifest")
	require.NoError(t, err)
	assert.Equal(t, "manifest", s.Name())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestRegistrySelect(t *testing.T) {
	r := Default()

	selected, err := r.Select([]string{"icons", " builder", "icons", ""})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "builder", selected[0].Name())
	assert.Equal(t, "icons", selected[1].Name())

	all, err := r.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = r.Select([]string{"icons", "bogus"})
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry(Icons(), Manifest())
	replacement := RemoteVite()
	r.Register(&textStep{name: "icons", description: "custom", file: replacement.(*textStep).file, rules: replacement.(*textStep).rules})

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "custom", list[0].Description())
}

func TestTextStepPatchesFile(t *testing.T) {
	env := newEnv(t, map[string]string{
		"remote.vite.config.ts": "build: { sourcemap: true }\n",
	})

	res, err := RemoteVite().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "remote.vite.config.ts updated: true", res.String())
	assert.Equal(t, "build: { sourcemap: false }\n", readFile(t, env, "remote.vite.config.ts"))

	res, err = RemoteVite().Apply(context.Background(), env)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestTextStepMissingFileIsFatal(t *testing.T) {
	env := newEnv(t, nil)

	_, err := ElectronBuilder().Apply(context.Background(), env)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "electron-builder.yml")
}

func TestDryRunRendersDiffWithoutWriting(t *testing.T) {
	original := "main:\n    minify: 'esbuild',\n    sourcemap: true,\n"
	env := newEnv(t, map[string]string{"electron.vite.config.ts": original})
	var diff bytes.Buffer
	env.DryRun = true
	env.Diff = &diff

	res, err := ElectronVite().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, original, readFile(t, env, "electron.vite.config.ts"))
	assert.Contains(t, diff.String(), "--- electron.vite.config.ts\n")
	assert.Contains(t, diff.String(), "-    sourcemap: true,\n")
	assert.Contains(t, diff.String(), "+    sourcemap: false,\n")
	assert.Contains(t, diff.String(), "+            rollupOptions: {\n")
}

const packageJSON = `{"name": "feishin", "dependencies": {"react-icons": "^5.2.1"}}`

func TestManifestStepPrefersRegistryVersion(t *testing.T) {
	env := newEnv(t, map[string]string{"package.json": packageJSON})
	lookup := &fakeLookup{version: "4.1.0"}
	env.Lookup = lookup

	res, err := Manifest().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, `{
    "dependencies": {
        "@react-icons/all-files": "^4.1.0",
        "react-icons": "^5.2.1"
    },
    "name": "feishin"
}
`, readFile(t, env, "package.json"))
}

func TestManifestStepFallsBackToDeclaredVersion(t *testing.T) {
	env := newEnv(t, map[string]string{"package.json": packageJSON})
	env.Lookup = &fakeLookup{err: errors.New("dial tcp: timeout")}

	res, err := Manifest().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, readFile(t, env, "package.json"), `"@react-icons/all-files": "^5.2.1"`)
}

func TestManifestStepOfflineUsesDevDependency(t *testing.T) {
	env := newEnv(t, map[string]string{
		"package.json": `{"devDependencies": {"react-icons": "5.0.0"}}`,
	})

	res, err := Manifest().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, readFile(t, env, "package.json"), `"@react-icons/all-files": "5.0.0"`)
}

func TestManifestStepIsNoOpWhenDeclared(t *testing.T) {
	content := `{"dependencies": {"@react-icons/all-files": "^4.1.0", "zod": "3"}}`
	env := newEnv(t, map[string]string{"package.json": content})
	lookup := &fakeLookup{version: "9.9.9"}
	env.Lookup = lookup

	res, err := Manifest().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, lookup.calls)
	assert.Equal(t, content, readFile(t, env, "package.json"))
}

func TestManifestStepSkipsWithoutAnyVersion(t *testing.T) {
	content := `{"dependencies": {"react": "18"}}`
	env := newEnv(t, map[string]string{"package.json": content})

	res, err := Manifest().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, content, readFile(t, env, "package.json"))
}

func TestManifestStepMalformedJSONIsFatal(t *testing.T) {
	env := newEnv(t, map[string]string{"package.json": `{"dependencies": `})

	_, err := Manifest().Apply(context.Background(), env)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.json")
}

func TestIconsStepRewritesAndCounts(t *testing.T) {
	env := newEnv(t, map[string]string{
		"src/renderer/player.tsx":        "import { RiPlayFill, RiPauseFill as Pause } from 'react-icons/ri';\n",
		"src/renderer/plain.tsx":         "export const x = 1;\n",
		"src/main/tray.ts":               "import { MdClose } from \"react-icons/md\";\n",
		"node_modules/lib/index.ts":      "import { MdClose } from 'react-icons/md';\n",
		"src/renderer/styles/theme.scss": "import { MdClose } from 'react-icons/md';\n",
	})

	res, err := Icons().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.Equal(t, "react-icons files updated: 2", res.String())
	assert.Equal(t,
		"import RiPlayFill from \"@react-icons/all-files/ri/RiPlayFill\";\n"+
			"import Pause from \"@react-icons/all-files/ri/RiPauseFill\";\n",
		readFile(t, env, "src/renderer/player.tsx"))
	assert.Equal(t, "import MdClose from \"@react-icons/all-files/md/MdClose\";\n", readFile(t, env, "src/main/tray.ts"))
	assert.Equal(t, "import { MdClose } from 'react-icons/md';\n", readFile(t, env, "node_modules/lib/index.ts"))

	res, err = Icons().Apply(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.False(t, res.Changed)
}

func TestIconsStepHonoursScope(t *testing.T) {
	env := newEnv(t, map[string]string{
		"src/renderer/a.tsx": "import { MdA } from 'react-icons/md';\n",
		"src/main/b.ts":      "import { MdB } from 'react-icons/md';\n",
	})
	env.Scope = scope.New([]string{"src/renderer/**"})

	res, err := Icons().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "import { MdB } from 'react-icons/md';\n", readFile(t, env, "src/main/b.ts"))
}

func TestIconsStepDryRun(t *testing.T) {
	original := "import { MdA, MdB } from 'react-icons/md';\n"
	env := newEnv(t, map[string]string{"src/a.tsx": original})
	var diff bytes.Buffer
	env.DryRun = true
	env.Diff = &diff

	res, err := Icons().Apply(context.Background(), env)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, original, readFile(t, env, "src/a.tsx"))
	assert.Contains(t, diff.String(), "-import { MdA, MdB } from 'react-icons/md';\n")
	assert.Contains(t, diff.String(), "+import MdB from \"@react-icons/all-files/md/MdB\";\n")
}

func TestIconsStepStopsOnCancelledContext(t *testing.T) {
	env := newEnv(t, map[string]string{"src/a.tsx": "import { MdA } from 'react-icons/md';\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Icons().Apply(ctx, env)

	assert.Error(t, err)
}

func TestResultValue(t *testing.T) {
	assert.Equal(t, "false", Result{Label: "x"}.Value())
	assert.Equal(t, "true", Result{Changed: true}.Value())
	assert.Equal(t, "x: 3", Result{Label: "x", Count: 3, Counted: true}.String())
}
