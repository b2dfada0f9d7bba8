package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/quill/internal/core/config"
)

// Answers holds the wizard's collected values.
type Answers struct {
	WBToken     string
	AIKey       string
	AIModel     string
	Theme       string
	CopyCommand string
}

// defaultAnswers seeds the form with shipped defaults and a detected
// clipboard command.
func defaultAnswers() Answers {
	defaults := config.DefaultConfig()
	return Answers{
		AIModel:     defaults.AI.Model,
		Theme:       defaults.TUI.Theme,
		CopyCommand: DetectCopyCommand(),
	}
}

// configHeader tops the generated file. Omitted settings fall back to the
// built-in defaults at load time.
const configHeader = `# quill configuration
# Secrets may be left out and provided via QUILL_WB_TOKEN / QUILL_AI_API_KEY,
# or referenced with ${VAR} syntax.

`

// generated mirrors the config file sections the wizard fills in. Sections
// with no answers are omitted entirely so the file stays minimal.
type generated struct {
	WB  *generatedWB  `yaml:"wb,omitempty"`
	AI  *generatedAI  `yaml:"ai,omitempty"`
	TUI *generatedTUI `yaml:"tui,omitempty"`
}

type generatedWB struct {
	Token string `yaml:"token,omitempty"`
}

type generatedAI struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

type generatedTUI struct {
	Theme       string `yaml:"theme,omitempty"`
	CopyCommand string `yaml:"copy_command,omitempty"`
}

// GenerateConfig renders the YAML config file for the wizard's answers.
func GenerateConfig(a Answers) ([]byte, error) {
	out := generated{}

	if a.WBToken != "" {
		out.WB = &generatedWB{Token: a.WBToken}
	}
	if a.AIKey != "" || a.AIModel != "" {
		out.AI = &generatedAI{APIKey: a.AIKey, Model: a.AIModel}
	}
	if a.Theme != "" || a.CopyCommand != "" {
		out.TUI = &generatedTUI{Theme: a.Theme, CopyCommand: a.CopyCommand}
	}

	body, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return append([]byte(configHeader), body...), nil
}

// WriteConfig writes the config file, creating parent directories. The file
// is written 0600 since it may hold API tokens.
func WriteConfig(content []byte, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	return os.WriteFile(configPath, content, 0o600)
}
