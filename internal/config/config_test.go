package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
db = "traces.db"
format = "json"
verbose = true
scenarios = "scenarios"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "traces.db"), cfg.DB)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(dir, "scenarios"), cfg.Scenarios)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `verbose = true`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, filepath.Join(dir, "testdata", "scenarios"), cfg.Scenarios)
	assert.Empty(t, cfg.DB)
	assert.True(t, cfg.Verbose)
}

func TestLoad_AbsoluteAndMemoryDB(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.db")
	cfg, err := Load(writeConfig(t, t.TempDir(), `db = "`+abs+`"`))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.DB)

	cfg, err = Load(writeConfig(t, t.TempDir(), `db = ":memory:"`))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DB)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `fromat = "json"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "fromat")
}

func TestLoad_InvalidFormat(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `format = "xml"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `format "xml"`)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `db = `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}

func TestLoad_AbsoluteScenarios(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "suite")
	cfg, err := Load(writeConfig(t, t.TempDir(), `scenarios = "`+abs+`"`))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Scenarios)
}

func TestFindAndLoad_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "format = \"json\"\nscenarios = \"suite\"\ndb = \"t.db\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, filepath.Join(root, FileName), cfg.Path)
	// Paths follow the file, not the directory the search started from.
	assert.Equal(t, filepath.Join(root, "suite"), cfg.Scenarios)
	assert.Equal(t, filepath.Join(root, "t.db"), cfg.DB)
}

func TestFindAndLoad_NoFile(t *testing.T) {
	cfg, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	// A vvalues.toml above the temp dir would be picked up; the defaults
	// are what an empty tree yields.
	if cfg.Path == "" {
		assert.Equal(t, Default(), cfg)
	}
}
