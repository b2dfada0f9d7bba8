package quill

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/item"
)

// Upstream is the marketplace seller API surface consumed by the feed.
type Upstream interface {
	Feedbacks(ctx context.Context) ([]item.Feedback, error)
	Questions(ctx context.Context) ([]item.Question, error)
	AnswerFeedback(ctx context.Context, id, text string) error
	AnswerQuestion(ctx context.Context, id, text string) error
}

// FeedService fetches unanswered items from the marketplace and publishes
// operator replies.
type FeedService struct {
	upstream Upstream
	cfg      *config.Config
	log      zerolog.Logger
}

// NewFeedService creates a feed service over the given upstream.
func NewFeedService(upstream Upstream, cfg *config.Config, log zerolog.Logger) *FeedService {
	return &FeedService{
		upstream: upstream,
		cfg:      cfg,
		log:      log.With().Str("component", "feed").Logger(),
	}
}

// Items returns the unanswered items of one category in upstream order,
// with muted products filtered out.
func (s *FeedService) Items(ctx context.Context, cat item.Category) ([]item.Item, error) {
	switch cat {
	case item.CategoryFeedbacks:
		fbs, err := s.upstream.Feedbacks(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]item.Item, 0, len(fbs))
		for _, fb := range fbs {
			items = append(items, fb.Item())
		}
		return s.filterMuted(items), nil

	case item.CategoryQuestions:
		qs, err := s.upstream.Questions(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]item.Item, 0, len(qs))
		for _, q := range qs {
			items = append(items, q.Item())
		}
		return s.filterMuted(items), nil

	default:
		return nil, fmt.Errorf("unknown category %q", cat)
	}
}

// ActiveIDs returns the IDs of all currently visible items across both
// categories. Used to prune stale draft cache rows.
func (s *FeedService) ActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, cat := range item.Categories() {
		items, err := s.Items(ctx, cat)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			ids = append(ids, it.ID)
		}
	}
	return ids, nil
}

// Reply publishes a reply payload, dispatching on its type discriminator.
// Question replies carry the text under answer; a top-level text is accepted
// as fallback.
func (s *FeedService) Reply(ctx context.Context, req item.ReplyRequest) error {
	text := strings.TrimSpace(req.ReplyText())
	if text == "" {
		return fmt.Errorf("reply %s has no text", req.ID)
	}

	switch req.Type {
	case item.CategoryFeedbacks.ReplyType():
		return s.upstream.AnswerFeedback(ctx, req.ID, text)
	case item.CategoryQuestions.ReplyType():
		return s.upstream.AnswerQuestion(ctx, req.ID, text)
	default:
		return fmt.Errorf("unknown reply type %q", req.Type)
	}
}

// filterMuted drops items whose product name matches a mute_products glob.
// Matching is case-insensitive; invalid patterns were rejected by config
// validation.
func (s *FeedService) filterMuted(items []item.Item) []item.Item {
	patterns := s.cfg.WB.MuteProducts
	if len(patterns) == 0 {
		return items
	}

	kept := items[:0]
	for _, it := range items {
		if s.muted(patterns, it.Product.Name) {
			s.log.Debug().Str("id", it.ID).Str("product", it.Product.Name).Msg("muted product filtered")
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func (s *FeedService) muted(patterns []string, productName string) bool {
	name := strings.ToLower(productName)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}
