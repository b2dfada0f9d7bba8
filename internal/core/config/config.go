// Package config handles configuration loading and validation for quill.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionQuit          = "quit"
	ActionHelp          = "help"
	ActionNext          = "next"
	ActionPrev          = "prev"
	ActionTabFeedbacks  = "tab_feedbacks"
	ActionTabQuestions  = "tab_questions"
	ActionTabCycle      = "tab_cycle"
	ActionRefresh       = "refresh"
	ActionEditDraft     = "edit"
	ActionEditPrompt    = "prompt"
	ActionSend          = "send"
	ActionRegenerate    = "regenerate"
	ActionPreview       = "preview"
	ActionCopy          = "copy"
	ActionNotifications = "notifications"
)

// knownActions guards keybinding validation.
var knownActions = map[string]struct{}{
	ActionQuit:          {},
	ActionHelp:          {},
	ActionNext:          {},
	ActionPrev:          {},
	ActionTabFeedbacks:  {},
	ActionTabQuestions:  {},
	ActionTabCycle:      {},
	ActionRefresh:       {},
	ActionEditDraft:     {},
	ActionEditPrompt:    {},
	ActionSend:          {},
	ActionRegenerate:    {},
	ActionPreview:       {},
	ActionCopy:          {},
	ActionNotifications: {},
}

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"q":     {Action: ActionQuit, Help: "quit"},
	"?":     {Action: ActionHelp, Help: "help"},
	"right": {Action: ActionNext, Help: "next card"},
	"l":     {Action: ActionNext, Help: "next card"},
	"left":  {Action: ActionPrev, Help: "prev card"},
	"h":     {Action: ActionPrev, Help: "prev card"},
	"1":     {Action: ActionTabFeedbacks, Help: "feedbacks tab"},
	"2":     {Action: ActionTabQuestions, Help: "questions tab"},
	"tab":   {Action: ActionTabCycle, Help: "switch tab"},
	"r":     {Action: ActionRefresh, Help: "refresh list"},
	"i":     {Action: ActionEditDraft, Help: "edit draft"},
	"p":     {Action: ActionEditPrompt, Help: "edit prompt"},
	"s":     {Action: ActionSend, Help: "send reply"},
	"g":     {Action: ActionRegenerate, Help: "regenerate"},
	"v":     {Action: ActionPreview, Help: "preview item"},
	"y":     {Action: ActionCopy, Help: "copy draft"},
	"N":     {Action: ActionNotifications, Help: "notification history"},
}

// Keybinding maps a key to a built-in TUI action.
type Keybinding struct {
	Action string `yaml:"action"`
	Help   string `yaml:"help"`
}

// Duration wraps time.Duration for YAML values like "800ms".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig holds the dashboard API server and client settings.
type ServerConfig struct {
	Addr    string   `yaml:"addr"`     // serve bind address
	BaseURL string   `yaml:"base_url"` // dashboard client target
	Timeout Duration `yaml:"timeout"`  // dashboard client request timeout
}

// WBConfig holds Wildberries seller API settings.
type WBConfig struct {
	Token        string   `yaml:"token"`
	BaseURL      string   `yaml:"base_url"`
	Take         int      `yaml:"take"`
	Order        string   `yaml:"order"`
	Timeout      Duration `yaml:"timeout"`
	MuteProducts []string `yaml:"mute_products"` // glob patterns of product names to hide
}

// AIConfig holds draft generation settings.
type AIConfig struct {
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Variants    int      `yaml:"variants"`
	Timeout     Duration `yaml:"timeout"`
}

// TUIConfig holds dashboard behavior settings.
type TUIConfig struct {
	Theme              string   `yaml:"theme"`
	TypewriterInterval Duration `yaml:"typewriter_interval"` // per-character reveal delay, 0 disables
	AutosaveWindow     Duration `yaml:"autosave_window"`     // draft autosave debounce window
	CopyCommand        string   `yaml:"copy_command"`        // e.g. pbcopy, "xclip -selection clipboard"
}

// Config holds the application configuration.
type Config struct {
	Server      ServerConfig          `yaml:"server"`
	WB          WBConfig              `yaml:"wb"`
	AI          AIConfig              `yaml:"ai"`
	TUI         TUIConfig             `yaml:"tui"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8000",
			BaseURL: "http://127.0.0.1:8000",
			Timeout: Duration(90 * time.Second),
		},
		WB: WBConfig{
			BaseURL: "https://feedbacks-api.wildberries.ru/api/v1",
			Take:    100,
			Order:   "dateDesc",
			Timeout: Duration(15 * time.Second),
		},
		AI: AIConfig{
			BaseURL:     "https://api.cometapi.com/v1",
			Model:       "gpt-5-chat-latest",
			Temperature: 1.0,
			Variants:    3,
			Timeout:     Duration(120 * time.Second),
		},
		TUI: TUIConfig{
			Theme:              "tokyo-night",
			TypewriterInterval: Duration(30 * time.Millisecond),
			AutosaveWindow:     Duration(800 * time.Millisecond),
		},
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir. Secret fields may reference environment variables with ${VAR}
// syntax and fall back to QUILL_WB_TOKEN / QUILL_AI_API_KEY when unset.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()
	cfg.expandSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = defaults.Server.Timeout
	}
	if c.WB.BaseURL == "" {
		c.WB.BaseURL = defaults.WB.BaseURL
	}
	if c.WB.Take == 0 {
		c.WB.Take = defaults.WB.Take
	}
	if c.WB.Order == "" {
		c.WB.Order = defaults.WB.Order
	}
	if c.WB.Timeout == 0 {
		c.WB.Timeout = defaults.WB.Timeout
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaults.AI.BaseURL
	}
	if c.AI.Model == "" {
		c.AI.Model = defaults.AI.Model
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = defaults.AI.Temperature
	}
	if c.AI.Variants == 0 {
		c.AI.Variants = defaults.AI.Variants
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = defaults.AI.Timeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.AutosaveWindow == 0 {
		c.TUI.AutosaveWindow = defaults.TUI.AutosaveWindow
	}
}

// expandSecrets resolves ${VAR} references and environment fallbacks for
// token fields.
func (c *Config) expandSecrets() {
	c.WB.Token = expandSecret(c.WB.Token, "QUILL_WB_TOKEN")
	c.AI.APIKey = expandSecret(c.AI.APIKey, "QUILL_AI_API_KEY")
}

func expandSecret(value, envFallback string) string {
	if value == "" {
		return os.Getenv(envFallback)
	}
	return os.ExpandEnv(value)
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}

// KeyFor returns the shortest key bound to the given action, for help text.
func (c *Config) KeyFor(action string) string {
	best := ""
	for key, kb := range c.Keybindings {
		if kb.Action != action {
			continue
		}
		if best == "" || len(key) < len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	return best
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url cannot be empty")
	}

	if c.WB.Take < 1 || c.WB.Take > 5000 {
		return fmt.Errorf("wb.take must be between 1 and 5000")
	}

	if c.WB.Order != "dateDesc" && c.WB.Order != "dateAsc" {
		return fmt.Errorf("wb.order must be dateDesc or dateAsc")
	}

	if c.AI.Variants < 1 || c.AI.Variants > 5 {
		return fmt.Errorf("ai.variants must be between 1 and 5")
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2")
	}

	if c.TUI.TypewriterInterval < 0 {
		return fmt.Errorf("tui.typewriter_interval cannot be negative")
	}

	if c.TUI.AutosaveWindow <= 0 {
		return fmt.Errorf("tui.autosave_window must be positive")
	}

	for key, kb := range c.Keybindings {
		if kb.Action == "" {
			return fmt.Errorf("keybinding %q must have an action", key)
		}
		if _, ok := knownActions[kb.Action]; !ok {
			return fmt.Errorf("keybinding %q has invalid action %q", key, kb.Action)
		}
	}

	return nil
}
