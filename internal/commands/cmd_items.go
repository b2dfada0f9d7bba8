package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/quill"
	"github.com/colonyops/quill/pkg/iojson"
)

type ItemsCmd struct {
	flags *Flags
	app   *quill.App

	// flags
	category   string
	jsonOutput bool
}

// NewItemsCmd creates a new items command
func NewItemsCmd(flags *Flags, app *quill.App) *ItemsCmd {
	return &ItemsCmd{flags: flags, app: app}
}

// Register adds the items command to the application
func (cmd *ItemsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "items",
		Usage:     "List unanswered feedbacks or questions",
		UsageText: "quill items [--category feedbacks|questions] [--json]",
		Description: `Displays a table of unanswered items fetched straight from the
Wildberries seller API. Muted products are filtered out.

Use --json for line-oriented output with full item fields.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "item category (feedbacks, questions)",
				Value:       string(item.CategoryFeedbacks),
				Destination: &cmd.category,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ItemsCmd) run(ctx context.Context, c *cli.Command) error {
	cat := item.Category(cmd.category)
	if !cat.Valid() {
		return fmt.Errorf("invalid category %q (expected feedbacks or questions)", cmd.category)
	}

	items, err := cmd.app.Feed.Items(ctx, cat)
	if err != nil {
		return fmt.Errorf("list %s: %w", cat, err)
	}

	if len(items) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No unanswered %s\n", cat)
		}
		return nil
	}

	out := c.Root().Writer

	// JSON output mode
	if cmd.jsonOutput {
		for _, it := range items {
			if err := iojson.WriteLine(out, buildItemInfo(it)); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	// Table output mode
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tRATING\tPRODUCT\tTEXT")

	for _, it := range items {
		rating := "-"
		if it.Rating > 0 {
			rating = fmt.Sprintf("%d", it.Rating)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			it.ID, rating, truncateCell(it.Product.Name, 32), truncateCell(it.Text, 60))
	}

	_ = w.Flush()

	return nil
}

// itemInfo is the JSON output format for quill items --json.
type itemInfo struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Rating   int    `json:"rating,omitempty"`
	Product  string `json:"product"`
	NmID     int64  `json:"nmId,omitempty"`
	Date     string `json:"date"`
	Text     string `json:"text"`
	User     string `json:"user,omitempty"`
}

func buildItemInfo(it item.Item) itemInfo {
	return itemInfo{
		ID:       it.ID,
		Category: string(it.Category),
		Rating:   it.Rating,
		Product:  it.Product.Name,
		NmID:     it.Product.NmID,
		Date:     it.CreatedDate,
		Text:     it.Text,
		User:     it.UserName,
	}
}

// truncateCell shortens a table cell to max runes, collapsing newlines so
// multi-line item text stays on one row.
func truncateCell(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
