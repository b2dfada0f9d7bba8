package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/data/db"
	"github.com/colonyops/quill/internal/data/stores"
	"github.com/colonyops/quill/internal/quill"
)

type fakeUpstream struct {
	feedbacks []item.Feedback
	questions []item.Question
	listErr   error
	answerErr error
	answered  map[string]string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{answered: map[string]string{}}
}

func (f *fakeUpstream) Feedbacks(context.Context) ([]item.Feedback, error) {
	return f.feedbacks, f.listErr
}

func (f *fakeUpstream) Questions(context.Context) ([]item.Question, error) {
	return f.questions, f.listErr
}

func (f *fakeUpstream) AnswerFeedback(_ context.Context, id, text string) error {
	if f.answerErr != nil {
		return f.answerErr
	}
	f.answered[id] = text
	return nil
}

func (f *fakeUpstream) AnswerQuestion(_ context.Context, id, text string) error {
	if f.answerErr != nil {
		return f.answerErr
	}
	f.answered[id] = text
	return nil
}

var _ quill.Upstream = (*fakeUpstream)(nil)

type fakeCompleter struct {
	calls int
	err   error
}

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("черновик %d", f.calls), nil
}

type fixture struct {
	srv       *httptest.Server
	server    *Server
	upstream  *fakeUpstream
	completer *fakeCompleter
	responder *quill.Responder
}

func newTestServer(t *testing.T) *fixture {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	upstream := newFakeUpstream()
	completer := &fakeCompleter{}
	feed := quill.NewFeedService(upstream, &cfg, zerolog.Nop())
	responder := quill.NewResponder(completer, stores.NewDraftStore(database), 3, zerolog.Nop())

	server := New(Config{}, feed, responder, zerolog.Nop())
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, server: server, upstream: upstream, completer: completer, responder: responder}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (f *fixture) post(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(f.srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func detailOf(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Detail
}

func TestHealth(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListFeedbacksServesWireShape(t *testing.T) {
	f := newTestServer(t)
	f.upstream.feedbacks = []item.Feedback{{
		ID:          "f1",
		Text:        "отличная кружка",
		Rating:      5,
		CreatedDate: "2026-02-01T10:00:00Z",
		Product:     item.Product{NmID: 14300000, Name: "Кружка"},
		UserName:    "Анна",
	}}

	resp, body := f.get(t, "/api/feedbacks?v=123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0]["id"])
	assert.Equal(t, float64(5), got[0]["productValuation"])
	assert.Equal(t, "Кружка", got[0]["productDetails"].(map[string]any)["productName"])
}

func TestListQuestionsServesWireShape(t *testing.T) {
	f := newTestServer(t)
	f.upstream.questions = []item.Question{{
		ID:      "q1",
		Text:    "какой размер?",
		Product: item.Product{NmID: 7, Name: "Чехол"},
	}}

	resp, body := f.get(t, "/api/questions")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "q1", got[0]["id"])
	_, hasRating := got[0]["productValuation"]
	assert.False(t, hasRating)
}

func TestListUpstreamFailureYieldsEmptyArray(t *testing.T) {
	f := newTestServer(t)
	f.upstream.listErr = errors.New("marketplace down")

	resp, body := f.get(t, "/api/feedbacks")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestGenerateRespondsAndCaches(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.post(t, "/api/generate-response", item.GenerateRequest{ID: "f1", Text: "хорошо"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"черновик 1"}`, string(body))
	assert.Equal(t, 1, f.completer.calls)

	// Same item without force comes from the cache.
	resp, body = f.post(t, "/api/generate-response", item.GenerateRequest{ID: "f1", Text: "хорошо"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"черновик 1"}`, string(body))
	assert.Equal(t, 1, f.completer.calls)
}

func TestGenerateRequiresID(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.post(t, "/api/generate-response", item.GenerateRequest{Text: "no id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing id", detailOf(t, body))
}

func TestGenerateVariantsReturnsLabeledMap(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.post(t, "/api/generate-multiple-responses", item.GenerateRequest{ID: "f1", Force: true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 3)
	assert.Contains(t, got, "gpt")
	assert.Contains(t, got, "gpt_v2")
	assert.Contains(t, got, "gpt_v3")
	assert.Equal(t, 3, f.completer.calls)
}

func TestReplySuccessForgetsCachedDraft(t *testing.T) {
	f := newTestServer(t)
	ctx := context.Background()

	_, _ = f.post(t, "/api/generate-response", item.GenerateRequest{ID: "f1", Text: "хорошо"})
	require.Equal(t, 1, f.completer.calls)

	resp, body := f.post(t, "/api/reply", item.NewFeedbackReply("f1", "Спасибо за отзыв!"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"success"`)
	assert.Equal(t, "Спасибо за отзыв!", f.upstream.answered["f1"])

	// The cached draft is gone, so a fresh request regenerates.
	text, cached := f.responder.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.False(t, cached)
	assert.Equal(t, "черновик 2", text)
}

func TestReplyValidation(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.post(t, "/api/reply", item.ReplyRequest{Type: "feedbacks", Text: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing id", detailOf(t, body))

	resp, body = f.post(t, "/api/reply", item.ReplyRequest{ID: "f1", Type: "orders", Text: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid item_type specified. Must be 'feedbacks' or 'questions'.", detailOf(t, body))

	resp, body = f.post(t, "/api/reply", item.ReplyRequest{ID: "f1", Type: "feedbacks", Text: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Reply text is required", detailOf(t, body))

	assert.Empty(t, f.upstream.answered)
}

func TestReplyUpstreamFailure(t *testing.T) {
	f := newTestServer(t)
	f.upstream.answerErr = errors.New("wb rejected")

	resp, body := f.post(t, "/api/reply", item.NewQuestionReply("q1", "Подойдет."))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to send reply via Wildberries API.", detailOf(t, body))
}

func TestCacheSelectedResponse(t *testing.T) {
	f := newTestServer(t)
	ctx := context.Background()

	resp, _ := f.post(t, "/api/cache-selected-response", item.CacheRequest{ID: "f1", Response: "выбранный"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	text, cached := f.responder.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.True(t, cached)
	assert.Equal(t, "выбранный", text)
	assert.Zero(t, f.completer.calls)
}

func TestCacheSelectedRejectsBlankFields(t *testing.T) {
	f := newTestServer(t)

	resp, body := f.post(t, "/api/cache-selected-response", item.CacheRequest{ID: "f1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing id or response", detailOf(t, body))
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	f := newTestServer(t)

	resp, err := http.Post(f.srv.URL+"/api/reply", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflights(t *testing.T) {
	f := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/feedbacks", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPrepareCachePrunesStaleDrafts(t *testing.T) {
	f := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, f.responder.CacheSelected(ctx, "stale", "старый черновик"))
	require.NoError(t, f.responder.CacheSelected(ctx, "f1", "живой черновик"))
	f.upstream.feedbacks = []item.Feedback{{ID: "f1", Text: "ок"}}

	f.server.prepareCache(ctx)

	_, cached := f.responder.Respond(ctx, item.GenerateRequest{ID: "f1"})
	assert.True(t, cached)

	text, cached := f.responder.Respond(ctx, item.GenerateRequest{ID: "stale"})
	assert.False(t, cached)
	assert.Equal(t, "черновик 1", text)
}
