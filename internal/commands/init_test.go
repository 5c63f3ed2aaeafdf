package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "household")

	require.NoError(t, runInit(dir))

	_, err := os.Stat(filepath.Join(dir, "wallet.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "wallet.db"))
	assert.NoError(t, err)
}

func TestRunInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir))
	err := runInit(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
