package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/dashboard"
	"github.com/colonyops/quill/internal/data/stores"
	"github.com/colonyops/quill/internal/quill"
	"github.com/colonyops/quill/internal/quill/updatecheck"
	"github.com/colonyops/quill/internal/tui"
	"github.com/colonyops/quill/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *quill.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *quill.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("QUILL_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	// Config warnings (missing tokens, no copy command) surface as toasts
	// once the dashboard is up.
	var warnings []string
	for _, w := range cfg.Warnings() {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Category, w.Message))
	}

	// Start profiler server if enabled
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	backend := dashboard.New(dashboard.Config{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Server.Timeout.Std(),
	}, log.Logger)

	opts := tui.Options{
		Service:     backend,
		KV:          cmd.app.KV,
		NotifyStore: stores.NewNotifyStore(cmd.app.DB),
		Checker:     updatecheck.New(cmd.app.KV),
		Version:     cmd.app.Version,
		Warnings:    warnings,
	}

	m := tui.New(cfg, opts)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
