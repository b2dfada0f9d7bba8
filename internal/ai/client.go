// Package ai calls an OpenAI-compatible chat completions API to draft
// replies to marketplace feedback.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the completions API root used when none is configured.
const DefaultBaseURL = "https://api.cometapi.com/v1"

// DefaultModel is the drafting model.
const DefaultModel = "gpt-5-chat-latest"

const (
	defaultTemperature = 1.0
	defaultTimeout     = 120 * time.Second
)

// Config configures the completions client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client is a minimal chat completions client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpc       *http.Client
	log         zerolog.Logger
}

// ErrNoAPIKey is returned by Complete when no API key is configured.
var ErrNoAPIKey = errors.New("ai: api key is not configured")

// New creates a completions client. Zero values fall back to defaults. A
// missing API key is allowed at construction time; Complete fails with
// ErrNoAPIKey.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpc:       &http.Client{Timeout: cfg.Timeout},
		log:         log.With().Str("component", "ai").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a system+user message pair and returns the first choice,
// normalized.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: completions call: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ai: completions call: unexpected status %d: %s", resp.StatusCode, snippet)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("ai: completions call: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("ai: completions call: empty choices")
	}

	c.log.Debug().Dur("elapsed", time.Since(start)).Str("model", c.model).Msg("completion finished")
	return Normalize(out.Choices[0].Message.Content), nil
}
