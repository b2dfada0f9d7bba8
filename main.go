package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/ai"
	"github.com/colonyops/quill/internal/commands"
	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/data/db"
	"github.com/colonyops/quill/internal/data/stores"
	"github.com/colonyops/quill/internal/quill"
	"github.com/colonyops/quill/internal/quill/sweep"
	"github.com/colonyops/quill/internal/wb"
	"github.com/colonyops/quill/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// effectiveVersion resolves the release version. When installed via
// `go install module@version`, ldflags aren't set so version remains "dev";
// fall back to runtime/debug.BuildInfo which Go populates automatically
// with the module version. The update check compares this value against
// published releases.
func effectiveVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			return mv
		}
	}
	return version
}

func build() string {
	v, c, d := effectiveVersion(), commit, date

	if info, ok := debug.ReadBuildInfo(); ok && commit == "HEAD" {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				c = s.Value
			case "vcs.time":
				d = s.Value
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		quillApp    = &quill.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "quill",
		Usage:     "Reply to Wildberries feedbacks and questions from your terminal",
		UsageText: "quill [global options] command [command options]",
		Description: `Quill is a seller dashboard for answering Wildberries feedbacks and buyer
questions, with AI-drafted replies you review and send.

Run 'quill serve' to start the API server, then 'quill' with no arguments
to open the interactive dashboard.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("QUILL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to the state directory)",
				Sources:     cli.EnvVars("QUILL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUILL_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("QUILL_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; stdout belongs to command output and
			// the dashboard. The serve and tui processes append to the
			// same file.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			// Open database connection
			database, err = db.Open(cfg.DataDir, db.DefaultOpenOptions())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			draftStore := stores.NewDraftStore(database)
			kvStore := stores.NewKVStore(database)

			// One-time import of the legacy JSON response cache.
			if err := stores.MigrateFromJSON(ctx, database, cfg.DataDir); err != nil {
				log.Warn().Err(err).Msg("legacy cache migration failed")
			}

			// Start background KV sweep goroutine
			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go sweep.Start(sweepCtx, kvStore, 5*time.Minute)

			wbClient := wb.New(wb.Config{
				BaseURL: cfg.WB.BaseURL,
				Token:   cfg.WB.Token,
				Take:    cfg.WB.Take,
				Order:   cfg.WB.Order,
				Timeout: cfg.WB.Timeout.Std(),
			}, log.Logger)

			aiClient := ai.New(ai.Config{
				BaseURL:     cfg.AI.BaseURL,
				APIKey:      cfg.AI.APIKey,
				Model:       cfg.AI.Model,
				Temperature: cfg.AI.Temperature,
				Timeout:     cfg.AI.Timeout.Std(),
			}, log.Logger)

			feed := quill.NewFeedService(wbClient, cfg, log.Logger)
			responder := quill.NewResponder(aiClient, draftStore, cfg.AI.Variants, log.Logger)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*quillApp = *quill.NewApp(
				feed,
				responder,
				cfg,
				database,
				kvStore,
				effectiveVersion(),
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop background sweep
			if sweepCancel != nil {
				sweepCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, quillApp)

	app = commands.NewServeCmd(flags, quillApp).Register(app)
	app = commands.NewItemsCmd(flags, quillApp).Register(app)
	app = commands.NewReplyCmd(flags, quillApp).Register(app)
	app = commands.NewPruneCmd(flags, quillApp).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'quill --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
