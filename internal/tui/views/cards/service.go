package cards

import (
	"context"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/dashboard"
)

// Service is the slice of the dashboard API the cards view talks to.
type Service interface {
	Items(ctx context.Context, cat item.Category) ([]item.Item, error)
	Generate(ctx context.Context, req item.GenerateRequest) (string, error)
	GenerateVariants(ctx context.Context, req item.GenerateRequest) ([]dashboard.Variant, error)
	Reply(ctx context.Context, req item.ReplyRequest) error
	CacheDraft(ctx context.Context, id, response string) error
}
