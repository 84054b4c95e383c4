// Package openai is the completion provider backed by the official openai-go SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"consult-agent/internal/domain"
)

const (
	Name           = "openai"
	DefaultBaseURL = "https://api.openai.com/v1/"

	model       = "gpt-4o-mini"
	maxTokens   = 500
	temperature = 0.7

	defaultTimeout = 30 * time.Second
)

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

// requestOptions pins every SDK setting the handler relies on, so values from
// OPENAI_* environment variables never leak into the call. Retries are off.
func (c *Client) requestOptions(apiKey string) []option.RequestOption {
	base := strings.TrimRight(c.baseURL, "/") + "/"
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}
	if c.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(c.httpClient))
	}
	return opts
}

func (c *Client) Complete(ctx context.Context, apiKey string, messages []domain.ChatMessage) (string, error) {
	if apiKey == "" {
		return "", errors.New("openai: api key must not be empty")
	}

	client := openaisdk.NewClient(c.requestOptions(apiKey)...)
	resp, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       model,
		Messages:    toSDKMessages(messages),
		MaxTokens:   openaisdk.Int(maxTokens),
		Temperature: openaisdk.Float(temperature),
	})
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", &domain.VendorError{
				Vendor:     Name,
				StatusCode: apiErr.StatusCode,
				Message:    apiErrorMessage(apiErr),
			}
		}
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func apiErrorMessage(apiErr *openaisdk.Error) string {
	if msg := strings.TrimSpace(apiErr.Message); msg != "" {
		return msg
	}
	return apiErr.Error()
}

func toSDKMessages(messages []domain.ChatMessage) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
