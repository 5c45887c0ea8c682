package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 10, cfg.CommitCount)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 10, cfg.MaxEntries)
	assert.Equal(t, 2, cfg.PacingSeconds)
	assert.Empty(t, cfg.RepoOwner)
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
repo_owner: octo
repo_name: widgets
batch_size: 25
pacing: 0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "octo", cfg.RepoOwner)
	assert.Equal(t, "widgets", cfg.RepoName)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 0, cfg.PacingSeconds)
	// Untouched keys keep their defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\n"), 0o644))

	t.Setenv("SHIPLOG_MODEL", "from-env")
	t.Setenv("SHIPLOG_MAX_ENTRIES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, 7, cfg.MaxEntries)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("batch_size: [not an int\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestKnownKeys_CoverAllConfigurationFields(t *testing.T) {
	t.Parallel()

	// Every schema entry's path matches its registry key.
	for key, schema := range KnownKeys {
		assert.Equal(t, key, schema.Path)
		assert.NotEmpty(t, schema.Description, key)
	}
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.db"), ExpandHomePath("~/x.db"))
	assert.Equal(t, "/abs/x.db", ExpandHomePath("/abs/x.db"))
	assert.Equal(t, "rel.db", ExpandHomePath("rel.db"))
}
