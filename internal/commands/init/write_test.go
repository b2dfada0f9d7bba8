package initcmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/config"
)

func TestGenerateConfig_fullAnswers(t *testing.T) {
	content, err := GenerateConfig(Answers{
		WBToken:     "wb-secret",
		AIKey:       "ai-secret",
		AIModel:     "gpt-5-chat-latest",
		Theme:       "tokyo-night",
		CopyCommand: "pbcopy",
	})
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "# quill configuration"))
	assert.Contains(t, text, "token: wb-secret")
	assert.Contains(t, text, "api_key: ai-secret")
	assert.Contains(t, text, "model: gpt-5-chat-latest")
	assert.Contains(t, text, "theme: tokyo-night")
	assert.Contains(t, text, "copy_command: pbcopy")
}

func TestGenerateConfig_emptySecretsOmitSections(t *testing.T) {
	content, err := GenerateConfig(Answers{
		AIModel: "gpt-5-chat-latest",
		Theme:   "tokyo-night",
	})
	require.NoError(t, err)

	text := string(content)
	assert.NotContains(t, text, "wb:")
	assert.NotContains(t, text, "token:")
	assert.NotContains(t, text, "api_key:")
	assert.Contains(t, text, "model: gpt-5-chat-latest")
}

func TestGenerateConfig_loadsBack(t *testing.T) {
	content, err := GenerateConfig(Answers{
		WBToken:     "wb-secret",
		AIKey:       "ai-secret",
		AIModel:     "gpt-4o",
		Theme:       "gruvbox",
		CopyCommand: "wl-copy",
	})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, WriteConfig(content, path))

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "wb-secret", cfg.WB.Token)
	assert.Equal(t, "ai-secret", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, "wl-copy", cfg.TUI.CopyCommand)
}

func TestWriteConfig_createsParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "quill", "config.yaml")

	require.NoError(t, WriteConfig([]byte("tui:\n  theme: tokyo-night\n"), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestDefaultAnswers(t *testing.T) {
	a := defaultAnswers()

	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.AI.Model, a.AIModel)
	assert.Equal(t, defaults.TUI.Theme, a.Theme)
	assert.Empty(t, a.WBToken)
	assert.Empty(t, a.AIKey)
}
