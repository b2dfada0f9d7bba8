package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/quill/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including URL syntax, glob patterns, theme names, and file accessibility.
// The configPath argument specifies the config file location to validate
// (empty string skips the config file check). This calls Validate() first
// for basic structural validation, then adds the per-field checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateURLs(),
		c.validateTheme(),
		c.validateMutePatterns(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.WB.Token == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Wildberries",
			Item:     "wb.token",
			Message:  "no token configured; serve, items, and reply will fail (set QUILL_WB_TOKEN)",
		})
	}

	if c.AI.APIKey == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "AI",
			Item:     "ai.api_key",
			Message:  "no API key configured; draft generation will fail (set QUILL_AI_API_KEY)",
		})
	}

	if c.TUI.CopyCommand == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "TUI",
			Item:     "tui.copy_command",
			Message:  "no copy command configured; the copy keybinding is disabled",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates a path is a directory or absent (it will
// be created on first use).
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func (c *Config) validateURLs() error {
	return criterio.ValidateStruct(
		criterio.Run("server.base_url", c.Server.BaseURL, isHTTPURL),
		criterio.Run("wb.base_url", c.WB.BaseURL, isHTTPURL),
		criterio.Run("ai.base_url", c.AI.BaseURL, isHTTPURL),
	)
}

func isHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host: %q", raw)
	}
	return nil
}

func (c *Config) validateTheme() error {
	return criterio.Run("tui.theme", c.TUI.Theme, func(name string) error {
		if _, ok := styles.GetPalette(name); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
		}
		return nil
	})
}

func (c *Config) validateMutePatterns() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.WB.MuteProducts {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("wb.mute_products[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}
