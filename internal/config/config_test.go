package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = "/var/lib/wallet/wallet.db"
	cfg.Import.DefaultFormat = "qfx"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, cfg.Import.DefaultFormat, got.Import.DefaultFormat)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "wallet.db", cfg.Database.Path)
	assert.Equal(t, "csv", cfg.Import.DefaultFormat)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: wallet.db")
	assert.Contains(t, contents, "default_format: csv")
	assert.Contains(t, contents, "level: info")
}
