package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, DefaultRepositoryURL, settings.Repository.URL)
	assert.Equal(t, "drydoc.yaml", settings.Build.Config)
	assert.Equal(t, "html", settings.Build.Output)
	assert.Equal(t, 8888, settings.Serve.Port)
	assert.Contains(t, settings.Repository.Dir, ".drydoc")
}

func TestMergeFile_OverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[repository]
url = "https://mirror.example.com/packages"

[serve]
port = 9000
`), 0o644))

	settings := DefaultSettings()
	require.NoError(t, mergeFile(&settings, path))

	assert.Equal(t, "https://mirror.example.com/packages", settings.Repository.URL)
	assert.Equal(t, 9000, settings.Serve.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, "html", settings.Build.Output)
	assert.Equal(t, "127.0.0.1", settings.Serve.Address)
}

func TestMergeFile_MissingFileIsFine(t *testing.T) {
	settings := DefaultSettings()
	require.NoError(t, mergeFile(&settings, filepath.Join(t.TempDir(), "absent.toml")))
	assert.Equal(t, DefaultSettings(), settings)
}

func TestMergeFile_MalformedTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid"), 0o644))

	settings := DefaultSettings()
	assert.Error(t, mergeFile(&settings, path))
}

func TestXDGPathResolver_EnvOverrides(t *testing.T) {
	t.Setenv("DRYDOC_CONFIG_HOME", "/custom/drydoc")
	resolver := NewXDGPathResolver()
	assert.Equal(t, "/custom/drydoc", resolver.ConfigDir())
	assert.Equal(t, "/custom/drydoc/config.toml", resolver.ConfigFile())

	t.Setenv("DRYDOC_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "drydoc"), resolver.ConfigDir())
}
