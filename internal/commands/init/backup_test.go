package initcmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupConfig(t *testing.T) {
	t.Run("missing file needs no backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")

		backup, err := BackupConfig(path)

		require.NoError(t, err)
		assert.Empty(t, backup)
	})

	t.Run("existing file copied to bak", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: dracula\n"), 0o600))

		backup, err := BackupConfig(path)

		require.NoError(t, err)
		assert.Equal(t, path+".bak", backup)

		content, err := os.ReadFile(backup)
		require.NoError(t, err)
		assert.Equal(t, "tui:\n  theme: dracula\n", string(content))
	})

	t.Run("stale backup replaced", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("new"), 0o600))
		require.NoError(t, os.WriteFile(path+".bak", []byte("old"), 0o600))

		backup, err := BackupConfig(path)

		require.NoError(t, err)
		content, err := os.ReadFile(backup)
		require.NoError(t, err)
		assert.Equal(t, "new", string(content))
	})
}

func TestConfigExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.False(t, ConfigExists(path))

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	assert.True(t, ConfigExists(path))
}
