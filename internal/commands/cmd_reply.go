package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/quill"
	"github.com/colonyops/quill/pkg/iojson"
)

type ReplyCmd struct {
	flags *Flags
	app   *quill.App

	// flags
	id       string
	category string
	text     string
	reader   iojson.FileReader[item.ReplyRequest]
}

// NewReplyCmd creates a new reply command
func NewReplyCmd(flags *Flags, app *quill.App) *ReplyCmd {
	return &ReplyCmd{flags: flags, app: app}
}

// Register adds the reply command to the application
func (cmd *ReplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reply",
		Usage:     "Send a reply to a feedback or question",
		UsageText: "quill reply [--id ID --text TEXT [--category CAT]] [-f payload.json]",
		Description: `Publishes a reply to the Wildberries seller API.

Pass --id and --text for a one-off reply, or pipe a JSON reply payload
(as produced by the dashboard API) via --file or stdin.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "id",
				Usage:       "item ID to reply to",
				Destination: &cmd.id,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "item category (feedbacks, questions)",
				Value:       string(item.CategoryFeedbacks),
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "reply text",
				Destination: &cmd.text,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplyCmd) run(ctx context.Context, c *cli.Command) error {
	req, err := cmd.buildRequest()
	if err != nil {
		return err
	}

	if err := cmd.app.Feed.Reply(ctx, req); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Reply sent to %s %s\n", req.Type, req.ID)

	return nil
}

func (cmd *ReplyCmd) buildRequest() (item.ReplyRequest, error) {
	if cmd.id == "" && cmd.text == "" {
		return cmd.reader.Read()
	}

	if cmd.id == "" || cmd.text == "" {
		return item.ReplyRequest{}, fmt.Errorf("--id and --text must be provided together")
	}

	cat := item.Category(cmd.category)
	if !cat.Valid() {
		return item.ReplyRequest{}, fmt.Errorf("invalid category %q (expected feedbacks or questions)", cmd.category)
	}

	if cat == item.CategoryQuestions {
		return item.NewQuestionReply(cmd.id, cmd.text), nil
	}
	return item.NewFeedbackReply(cmd.id, cmd.text), nil
}
