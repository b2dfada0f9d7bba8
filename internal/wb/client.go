// Package wb is the Wildberries seller API client used by the serve backend
// to fetch unanswered feedbacks and questions and to publish replies.
package wb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/item"
)

// DefaultBaseURL is the seller feedbacks API root.
const DefaultBaseURL = "https://feedbacks-api.wildberries.ru/api/v1"

const (
	defaultTake    = 100
	defaultOrder   = "dateDesc"
	defaultTimeout = 15 * time.Second
)

// Config configures the seller API client.
type Config struct {
	BaseURL string
	Token   string
	Take    int
	Order   string
	Timeout time.Duration
}

// Client talks to the seller feedbacks API.
type Client struct {
	baseURL string
	token   string
	take    int
	order   string
	httpc   *http.Client
	log     zerolog.Logger
}

// ErrNoToken is returned by requests when no seller API token is configured.
var ErrNoToken = errors.New("wb: token is not configured")

// New creates a seller API client. Zero values fall back to defaults. A
// missing token is allowed at construction time so that commands which never
// touch the API (init, config validate) still start; requests fail with
// ErrNoToken.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Take <= 0 {
		cfg.Take = defaultTake
	}
	if cfg.Order == "" {
		cfg.Order = defaultOrder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		take:    cfg.Take,
		order:   cfg.Order,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "wb").Logger(),
	}
}

// envelope is the common seller API response wrapper.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Error     bool            `json:"error"`
	ErrorText string          `json:"errorText"`
}

// Feedbacks fetches unanswered feedbacks, newest first.
func (c *Client) Feedbacks(ctx context.Context) ([]item.Feedback, error) {
	raws, err := c.list(ctx, "/feedbacks", "feedbacks")
	if err != nil {
		return nil, err
	}

	out := make([]item.Feedback, 0, len(raws))
	for _, raw := range raws {
		fb, err := parseFeedback(raw)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping malformed feedback entry")
			continue
		}
		out = append(out, fb)
	}
	return out, nil
}

// Questions fetches unanswered questions, newest first.
func (c *Client) Questions(ctx context.Context) ([]item.Question, error) {
	raws, err := c.list(ctx, "/questions", "questions")
	if err != nil {
		return nil, err
	}

	out := make([]item.Question, 0, len(raws))
	for _, raw := range raws {
		q, err := parseQuestion(raw)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping malformed question entry")
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// AnswerFeedback publishes a feedback reply.
func (c *Client) AnswerFeedback(ctx context.Context, id, text string) error {
	body := map[string]string{"id": id, "text": text}
	return c.send(ctx, http.MethodPost, "/feedbacks/answer", body)
}

// AnswerQuestion publishes a question answer and marks it answered.
func (c *Client) AnswerQuestion(ctx context.Context, id, text string) error {
	body := map[string]any{
		"id":     id,
		"answer": map[string]string{"text": text},
		"state":  item.QuestionAnsweredState,
	}
	return c.send(ctx, http.MethodPatch, "/questions", body)
}

// list fetches one unanswered listing page and returns the raw entries under
// data.<field>.
func (c *Client) list(ctx context.Context, path, field string) ([]json.RawMessage, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	q := url.Values{}
	q.Set("isAnswered", "false")
	q.Set("take", strconv.Itoa(c.take))
	q.Set("skip", "0")
	q.Set("order", c.order)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wb: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wb: get %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("wb: get %s: unexpected status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("wb: decode %s: %w", path, err)
	}
	if env.Error {
		return nil, fmt.Errorf("wb: get %s: %s", path, env.ErrorText)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("wb: decode %s data: %w", path, err)
	}

	var entries []json.RawMessage
	if raw, ok := data[field]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("wb: decode %s entries: %w", path, err)
		}
	}
	return entries, nil
}

// send posts a reply payload and checks for success.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	if c.token == "" {
		return ErrNoToken
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("wb: marshal %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("wb: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("wb: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Bytes("body", snippet).Msg("reply rejected")
		return fmt.Errorf("wb: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return nil
}
