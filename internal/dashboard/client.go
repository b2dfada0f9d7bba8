// Package dashboard is the HTTP client for the quill API server. The TUI
// talks to the backend exclusively through it.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/item"
)

// DefaultBaseURL is the local backend the TUI targets out of the box.
const DefaultBaseURL = "http://127.0.0.1:8000"

const defaultTimeout = 90 * time.Second

// StatusError is a non-2xx backend response. Detail carries the server's
// detail field when the body had one.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("dashboard: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("dashboard: status %d", e.Status)
}

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the quill API server.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// New creates a backend client. Zero values fall back to defaults.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "dashboard").Logger(),
	}
}

// Variant is one generated draft alternative.
type Variant struct {
	Label string
	Text  string
}

// Items fetches the unanswered items for a category. The v query param
// defeats any intermediate response caching.
func (c *Client) Items(ctx context.Context, cat item.Category) ([]item.Item, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("dashboard: unknown category %q", cat)
	}

	path := fmt.Sprintf("/api/%s?v=%s", cat, strconv.FormatInt(time.Now().UnixMilli(), 10))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	switch cat {
	case item.CategoryQuestions:
		var list []item.Question
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("dashboard: decode questions: %w", err)
		}
		items := make([]item.Item, 0, len(list))
		for _, q := range list {
			items = append(items, q.Item())
		}
		return items, nil
	default:
		var list []item.Feedback
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("dashboard: decode feedbacks: %w", err)
		}
		items := make([]item.Item, 0, len(list))
		for _, f := range list {
			items = append(items, f.Item())
		}
		return items, nil
	}
}

// Generate requests a single draft reply for an item.
func (c *Client) Generate(ctx context.Context, req item.GenerateRequest) (string, error) {
	body, err := c.post(ctx, "/api/generate-response", req)
	if err != nil {
		return "", err
	}

	var resp item.GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("dashboard: decode response: %w", err)
	}
	return resp.Response, nil
}

// GenerateVariants requests several draft alternatives for an item. Variants
// come back sorted by label so render order is stable regardless of server
// map order.
func (c *Client) GenerateVariants(ctx context.Context, req item.GenerateRequest) ([]Variant, error) {
	body, err := c.post(ctx, "/api/generate-multiple-responses", req)
	if err != nil {
		return nil, err
	}

	var byLabel map[string]string
	if err := json.Unmarshal(body, &byLabel); err != nil {
		return nil, fmt.Errorf("dashboard: decode variants: %w", err)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	variants := make([]Variant, 0, len(labels))
	for _, label := range labels {
		variants = append(variants, Variant{Label: label, Text: byLabel[label]})
	}
	return variants, nil
}

// Reply submits a reply to the marketplace via the backend.
func (c *Client) Reply(ctx context.Context, req item.ReplyRequest) error {
	_, err := c.post(ctx, "/api/reply", req)
	return err
}

// CacheDraft persists a draft server-side so regeneration and restarts keep
// it. Callers treat failures as non-fatal.
func (c *Client) CacheDraft(ctx context.Context, id, response string) error {
	_, err := c.post(ctx, "/api/cache-selected-response", item.CacheRequest{ID: id, Response: response})
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard: build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dashboard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dashboard: read %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode, Detail: extractDetail(body)}
		c.log.Warn().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("backend request failed")
		return nil, statusErr
	}
	return body, nil
}

// extractDetail pulls the detail field out of an error body, if any.
func extractDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
