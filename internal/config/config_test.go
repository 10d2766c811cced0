package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBaseURL, cfg.Service.BaseURL)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 100, cfg.Bulk.BatchSize)
	assert.Equal(t, 1, cfg.Bulk.MaxConcurrency)
}

func TestNew(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		t.Setenv(EnvConfigDir, t.TempDir())
		t.Setenv(EnvBaseURL, "")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.Service.BaseURL)
	})

	t.Run("FileValues", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigDir, dir)
		t.Setenv(EnvBaseURL, "")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("service:\n  base_url: https://mem.example.com\nbulk:\n  batch_size: 50\n"), 0600))

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, "https://mem.example.com", cfg.Service.BaseURL)
		assert.Equal(t, 50, cfg.Bulk.BatchSize)
		// Unset sections keep defaults.
		assert.Equal(t, "table", cfg.Output.DefaultFormat)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigDir, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("service:\n  base_url: https://file.example.com\n"), 0600))
		t.Setenv(EnvBaseURL, "https://env.example.com")
		t.Setenv(EnvToken, "env-token")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", cfg.Service.BaseURL)
		assert.Equal(t, "env-token", cfg.Service.Token)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigDir, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("service: [oops\n"), 0600))

		_, err := New()
		assert.Error(t, err)
	})
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	path, err := WriteDefault()
	require.NoError(t, err)
	assert.FileExists(t, path)

	// Second call must refuse to clobber.
	_, err = WriteDefault()
	assert.ErrorContains(t, err, "already exists")
}

func TestGlobalConfig(t *testing.T) {
	t.Cleanup(func() { SetGlobalConfig(nil) })

	// Unset global returns defaults rather than nil.
	SetGlobalConfig(nil)
	assert.NotNil(t, GetGlobalConfig())

	cfg := Default()
	cfg.Output.DefaultFormat = "ndjson"
	SetGlobalConfig(cfg)
	assert.Equal(t, "ndjson", GetDefaultOutputFormat())
}
