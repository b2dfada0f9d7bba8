package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "quill config validate [options]",
				Description: "Validates the configuration file, checking URLs, glob patterns, theme names, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// fieldError is the JSON shape for a single validation failure.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	result := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		return cmd.outputJSON(c, result, warnings)
	}

	return cmd.outputText(c, result, warnings)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, result error, warnings []config.ValidationWarning) error {
	out := struct {
		Valid    bool                       `json:"valid"`
		Errors   []fieldError               `json:"errors,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    result == nil,
		Errors:   splitFieldErrors(result),
		Warnings: warnings,
	}

	if err := iojson.WriteWith(c.Root().Writer, out); err != nil {
		return err
	}

	if result != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, result error, warnings []config.ValidationWarning) error {
	out := c.Root().Writer

	fmt.Fprintf(out, "Config:   %s\n", orDefault(cmd.flags.ConfigPath, "(defaults)"))
	fmt.Fprintf(out, "Data dir: %s\n", cmd.flags.Config.DataDir)
	fmt.Fprintln(out)

	for _, warn := range warnings {
		fmt.Fprintf(out, "! %s: %s\n", warn.Category, warn.Message)
		if warn.Item != "" {
			fmt.Fprintf(out, "    %s\n", warn.Item)
		}
	}

	if result == nil {
		fmt.Fprintln(out, "✓ Configuration is valid")
		return nil
	}

	errs := splitFieldErrors(result)
	for _, fe := range errs {
		fmt.Fprintf(out, "✗ %s: %s\n", fe.Field, fe.Message)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d error(s) found\n", len(errs))

	return cli.Exit("", 1)
}

// splitFieldErrors flattens a validation error into field/message pairs.
// Structural errors from the basic Validate pass carry no field name and
// map to the "config" pseudo-field.
func splitFieldErrors(result error) []fieldError {
	if result == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(result, &fieldErrs) {
		return []fieldError{{Field: "config", Message: result.Error()}}
	}

	out := make([]fieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
