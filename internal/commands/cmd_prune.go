package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/quill"
)

type PruneCmd struct {
	flags *Flags
	app   *quill.App
}

// NewPruneCmd creates a new prune command
func NewPruneCmd(flags *Flags, app *quill.App) *PruneCmd {
	return &PruneCmd{flags: flags, app: app}
}

// Register adds the prune command to the application
func (cmd *PruneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prune",
		Usage:     "Remove cached drafts for answered items",
		UsageText: "quill prune",
		Description: `Deletes draft cache entries whose items are no longer in the
unanswered feed. The serve command does this on startup; run it manually to
reclaim space without restarting the server.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *PruneCmd) run(ctx context.Context, c *cli.Command) error {
	ids, err := cmd.app.Feed.ActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("fetch active items: %w", err)
	}

	count, err := cmd.app.Responder.Prune(ctx, ids)
	if err != nil {
		return fmt.Errorf("prune drafts: %w", err)
	}

	out := c.Root().Writer
	if count == 0 {
		fmt.Fprintln(out, "No stale drafts to prune")
		return nil
	}

	fmt.Fprintf(out, "Pruned %d draft(s)\n", count)

	return nil
}
