package quill

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/ai"
	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/data/db"
	"github.com/colonyops/quill/internal/data/stores"
)

// fakeCompleter returns queued responses in order, then repeats the last.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, user string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func newTestResponder(t *testing.T, completer Completer, variants int) *Responder {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewResponder(completer, stores.NewDraftStore(database), variants, zerolog.Nop())
}

func TestRespond_GeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{responses: []string{"Спасибо за отзыв!"}}
	r := newTestResponder(t, completer, 3)

	req := item.GenerateRequest{ID: "f1", Text: "отличная кружка", Rating: 5}

	text, cached := r.Respond(ctx, req)
	assert.Equal(t, "Спасибо за отзыв!", text)
	assert.False(t, cached)
	assert.Equal(t, 1, completer.calls)

	// Second call without force is served from cache.
	text, cached = r.Respond(ctx, req)
	assert.Equal(t, "Спасибо за отзыв!", text)
	assert.True(t, cached)
	assert.Equal(t, 1, completer.calls)
}

func TestRespond_ForceRegenerates(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{responses: []string{"первый", "второй"}}
	r := newTestResponder(t, completer, 3)

	text, _ := r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "первый", text)

	text, cached := r.Respond(ctx, item.GenerateRequest{ID: "f1", Force: true})
	assert.Equal(t, "второй", text)
	assert.False(t, cached)
	assert.Equal(t, 2, completer.calls)
}

func TestRespond_FailureReturnsApologyUncached(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{err: errors.New("model down")}
	r := newTestResponder(t, completer, 3)

	text, cached := r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, ai.FallbackSingle, text)
	assert.False(t, cached)

	// The apology is not cached: the next generation tries again.
	completer.err = nil
	completer.responses = []string{"теперь получилось"}
	text, cached = r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "теперь получилось", text)
	assert.False(t, cached)
}

func TestRespond_SurvivesRestartViaDurableLayer(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	drafts := stores.NewDraftStore(database)

	first := NewResponder(&fakeCompleter{responses: []string{"сохранено"}}, drafts, 3, zerolog.Nop())
	text, _ := first.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "сохранено", text)

	// A fresh responder over the same store has a cold hot cache but finds
	// the draft in the durable layer.
	stale := &fakeCompleter{responses: []string{"не должно вызываться"}}
	second := NewResponder(stale, drafts, 3, zerolog.Nop())
	text, cached := second.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "сохранено", text)
	assert.True(t, cached)
	assert.Zero(t, stale.calls)
}

func TestVariants_LabelsAndFallbacks(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{responses: []string{"вариант один", "вариант два", "вариант три"}}
	r := newTestResponder(t, completer, 3)

	got := r.Variants(ctx, item.GenerateRequest{ID: "f1", Force: true})
	require.Len(t, got, 3)
	assert.Equal(t, "вариант один", got["gpt"])
	assert.Equal(t, "вариант два", got["gpt_v2"])
	assert.Equal(t, "вариант три", got["gpt_v3"])
}

func TestVariants_AllFailuresYieldFallbacks(t *testing.T) {
	ctx := context.Background()
	r := newTestResponder(t, &fakeCompleter{err: errors.New("down")}, 2)

	got := r.Variants(ctx, item.GenerateRequest{ID: "f1", Force: true})
	require.Len(t, got, 2)
	for _, text := range got {
		assert.Equal(t, ai.FallbackVariant, text)
	}
}

func TestVariants_CacheHitShortCircuits(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{responses: []string{"кешировано"}}
	r := newTestResponder(t, completer, 3)

	r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	require.Equal(t, 1, completer.calls)

	// Without force and without a prompt every label carries the cached
	// response and the model is not called again.
	got := r.Variants(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, map[string]string{
		"gpt":    "кешировано",
		"gpt_v2": "кешировано",
		"gpt_v3": "кешировано",
	}, got)
	assert.Equal(t, 1, completer.calls)

	// A custom prompt always regenerates.
	got = r.Variants(ctx, item.GenerateRequest{ID: "f1", Prompt: "короче"})
	require.Len(t, got, 3)
	assert.Equal(t, 4, completer.calls)
}

func TestCacheSelectedAndForget(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{responses: []string{"регенерация"}}
	r := newTestResponder(t, completer, 3)

	require.NoError(t, r.CacheSelected(ctx, "f1", "выбранный вариант"))

	text, cached := r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "выбранный вариант", text)
	assert.True(t, cached)

	r.Forget(ctx, "f1")
	text, cached = r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "регенерация", text)
	assert.False(t, cached)
}

func TestPruneDropsStaleEntries(t *testing.T) {
	ctx := context.Background()
	r := newTestResponder(t, &fakeCompleter{responses: []string{"x"}}, 3)

	require.NoError(t, r.CacheSelected(ctx, "keep", "a"))
	require.NoError(t, r.CacheSelected(ctx, "stale", "b"))

	removed, err := r.Prune(ctx, []string{"keep"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, cached := r.Respond(ctx, item.GenerateRequest{ID: "keep"})
	assert.True(t, cached)
	text, cached := r.Respond(ctx, item.GenerateRequest{ID: "stale"})
	assert.False(t, cached)
	assert.Equal(t, "x", text)
}

func TestWarmLoadsDurableDrafts(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	drafts := stores.NewDraftStore(database)
	require.NoError(t, drafts.Upsert(ctx, "f1", "из базы"))

	r := NewResponder(&fakeCompleter{responses: []string{"нет"}}, drafts, 3, zerolog.Nop())
	r.Warm(ctx)

	text, cached := r.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.Equal(t, "из базы", text)
	assert.True(t, cached)
}
