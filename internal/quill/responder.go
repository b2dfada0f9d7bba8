package quill

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/ai"
	"github.com/colonyops/quill/internal/core/draft"
	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/data/stores"
	"github.com/colonyops/quill/pkg/kv"
)

// Completer produces one reply draft from a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Responder orchestrates draft generation and the per-item response cache.
// The cache has two layers: an in-memory hot map and the durable draft
// store. A generation failure never fails the operation; the caller gets
// the fixed apology text instead.
type Responder struct {
	ai       Completer
	drafts   draft.Store
	hot      *kv.Store[string, string]
	variants int
	log      zerolog.Logger
}

// NewResponder creates a responder producing the given number of variants
// on the multi-draft path.
func NewResponder(completer Completer, drafts draft.Store, variants int, log zerolog.Logger) *Responder {
	if variants <= 0 {
		variants = 3
	}
	return &Responder{
		ai:       completer,
		drafts:   drafts,
		hot:      kv.New[string, string](),
		variants: variants,
		log:      log.With().Str("component", "responder").Logger(),
	}
}

// Warm loads all stored drafts into the hot cache. Called once at startup;
// failures are logged and leave the cache cold.
func (r *Responder) Warm(ctx context.Context) {
	all, err := r.drafts.All(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("draft cache warm failed")
		return
	}
	r.hot.SetBatch(all)
	r.log.Debug().Int("drafts", len(all)).Msg("draft cache warmed")
}

// Respond returns a single draft for the item. Without force, a cached
// response is served as-is. Otherwise the model is called; on failure the
// fixed apology text is returned and nothing is cached. The second return
// reports whether the response came from the cache.
func (r *Responder) Respond(ctx context.Context, req item.GenerateRequest) (string, bool) {
	if !req.Force {
		if text, ok := r.cached(ctx, req.ID); ok {
			return text, true
		}
	}

	text, err := r.ai.Complete(ctx, ai.SystemPrompt, ai.UserPrompt(req))
	if err != nil {
		r.log.Warn().Err(err).Str("id", req.ID).Msg("draft generation failed")
		return ai.FallbackSingle, false
	}

	r.store(ctx, req.ID, text)
	return text, false
}

// Variants returns labeled draft variants for the item. Without force and
// without a custom prompt, a cache hit short-circuits: every label carries
// the cached text and the model is not called. Per-variant failures yield
// the variant fallback text; nothing is cached until the operator selects
// a variant.
func (r *Responder) Variants(ctx context.Context, req item.GenerateRequest) map[string]string {
	if !req.Force && req.Prompt == "" {
		if text, ok := r.cached(ctx, req.ID); ok {
			out := make(map[string]string, r.variants)
			for _, label := range ai.VariantLabels(r.variants) {
				out[label] = text
			}
			return out
		}
	}

	user := ai.UserPrompt(req)
	out := make(map[string]string, r.variants)
	for _, label := range ai.VariantLabels(r.variants) {
		text, err := r.ai.Complete(ctx, ai.SystemPrompt, user)
		if err != nil {
			r.log.Warn().Err(err).Str("id", req.ID).Str("variant", label).Msg("variant generation failed")
			out[label] = ai.FallbackVariant
			continue
		}
		out[label] = text
	}
	return out
}

// CacheSelected persists an operator-selected or edited draft in both
// cache layers.
func (r *Responder) CacheSelected(ctx context.Context, id, response string) error {
	if err := r.drafts.Upsert(ctx, id, response); err != nil {
		return err
	}
	r.hot.Set(id, response)
	return nil
}

// Forget drops the cached response for an item from both layers. Called
// after a reply is published.
func (r *Responder) Forget(ctx context.Context, id string) {
	r.hot.Delete(id)
	if err := r.drafts.Delete(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("draft delete failed")
	}
}

// Prune removes cached responses for items no longer in the feed and
// returns the number of rows removed.
func (r *Responder) Prune(ctx context.Context, keep []string) (int64, error) {
	removed, err := r.drafts.PruneExcept(ctx, keep)
	if err != nil {
		return 0, err
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	for _, id := range r.hot.Keys() {
		if _, ok := keepSet[id]; !ok {
			r.hot.Delete(id)
		}
	}

	return removed, nil
}

func (r *Responder) cached(ctx context.Context, id string) (string, bool) {
	if text, ok := r.hot.Get(id); ok {
		return text, true
	}

	text, err := r.drafts.Get(ctx, id)
	if err != nil {
		if !stores.IsNotFoundError(err) {
			r.log.Warn().Err(err).Str("id", id).Msg("draft lookup failed")
		}
		return "", false
	}

	r.hot.Set(id, text)
	return text, true
}

func (r *Responder) store(ctx context.Context, id, text string) {
	r.hot.Set(id, text)
	if err := r.drafts.Upsert(ctx, id, text); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("draft upsert failed")
	}
}
