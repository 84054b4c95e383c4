// Package minimax is the completion provider for the MiniMax chat completion API.
// MiniMax can report failures inside a 200 response through base_resp.status_code,
// so every response is checked for that code before the text is extracted.
package minimax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"consult-agent/internal/domain"
)

const (
	Name           = "minimax"
	DefaultBaseURL = "https://api.minimax.io/v1"

	model       = "MiniMax-Text-01"
	maxTokens   = 500
	temperature = 0.7

	defaultTimeout = 30 * time.Second
)

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
}

type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

type chatResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	BaseResp *baseResp `json:"base_resp"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return Name }

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/text/chatcompletion_v2"
	}
	return base + "/v1/text/chatcompletion_v2"
}

func (c *Client) Complete(ctx context.Context, apiKey string, messages []domain.ChatMessage) (string, error) {
	if apiKey == "" {
		return "", errors.New("minimax: api key must not be empty")
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("minimax: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL(c.baseURL), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("minimax: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("minimax: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("minimax: read response body: %w", err)
	}

	var payload chatResponse
	decodeErr := json.Unmarshal(raw, &payload)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", &domain.VendorError{
			Vendor:     Name,
			StatusCode: res.StatusCode,
			Code:       payload.statusCode(),
			Message:    payload.errorMessage(res.StatusCode, raw),
		}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("minimax: decode response: %w", decodeErr)
	}
	if code := payload.statusCode(); code != 0 {
		return "", &domain.VendorError{
			Vendor:     Name,
			StatusCode: res.StatusCode,
			Code:       code,
			Message:    payload.errorMessage(res.StatusCode, raw),
		}
	}

	if len(payload.Choices) == 0 {
		return "", nil
	}
	return payload.Choices[0].Message.Content, nil
}

func (r chatResponse) statusCode() int {
	if r.BaseResp == nil {
		return 0
	}
	return r.BaseResp.StatusCode
}

// errorMessage prefers base_resp.status_msg, then error.message, then the raw
// payload, then the status text.
func (r chatResponse) errorMessage(status int, raw []byte) string {
	if r.BaseResp != nil && r.BaseResp.StatusMsg != "" {
		return r.BaseResp.StatusMsg
	}
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return http.StatusText(status)
}
