package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/quill"
	"github.com/colonyops/quill/internal/server"
)

type ServeCmd struct {
	flags *Flags
	app   *quill.App

	// flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *quill.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the dashboard API server",
		UsageText: "quill serve [--addr :8000]",
		Description: `Runs the HTTP API the dashboard talks to. The server proxies the
Wildberries seller API, generates reply drafts through the configured AI
backend, and owns the local draft cache.

On startup the draft cache is warmed and entries for items no longer in the
feed are pruned. Stop with Ctrl-C; in-flight requests are drained first.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr from config)",
				Sources:     cli.EnvVars("QUILL_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	addr := cmd.flags.Config.Server.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}

	srv := server.New(server.Config{Addr: addr}, cmd.app.Feed, cmd.app.Responder, log.Logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
