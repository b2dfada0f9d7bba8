// Command docgen generates CLI reference documentation from the quill
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/commands"
	"github.com/colonyops/quill/internal/quill"
)

func main() {
	flags := &commands.Flags{}
	app := &quill.App{}

	root := &cli.Command{
		Name:      "quill",
		Usage:     "Reply to Wildberries feedbacks and questions from your terminal",
		UsageText: "quill [global options] command [command options]",
		Description: `Quill is a seller dashboard for answering Wildberries feedbacks and buyer
questions, with AI-drafted replies you review and send.

Run 'quill serve' to start the API server, then 'quill' with no arguments
to open the interactive dashboard.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("QUILL_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to the state directory)",
				Sources: cli.EnvVars("QUILL_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("QUILL_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("QUILL_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewServeCmd(flags, app).Register(root)
	root = commands.NewItemsCmd(flags, app).Register(root)
	root = commands.NewReplyCmd(flags, app).Register(root)
	root = commands.NewPruneCmd(flags, app).Register(root)
	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
