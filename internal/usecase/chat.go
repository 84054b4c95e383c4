package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"consult-agent/internal/domain"
	"consult-agent/internal/metrics"
)

// FallbackResponse is returned when the vendor answers without any text.
const FallbackResponse = "Sorry, I couldn't get a response."

const exchangeTTL = 30 * 24 * time.Hour

// CompletionProvider is a vendor chat-completion backend. Implementations own the
// vendor's request/response shape and return *domain.VendorError for failures
// the vendor reports. An empty string with a nil error means the vendor
// returned no assistant text.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, apiKey string, messages []domain.ChatMessage) (string, error)
}

// CredentialSource yields the vendor API key. An empty key with a nil error
// means the credential is not configured.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
	Name() string
}

type ExchangeRecorder interface {
	RecordExchange(ctx context.Context, ex domain.Exchange) error
}

type ChatService struct {
	provider     CompletionProvider
	credentials  CredentialSource
	systemPrompt string
	exchanges    ExchangeRecorder
	log          *zap.Logger
}

type Option func(*ChatService)

// WithExchangeRecorder enables recording of every answered exchange. Recording
// failures are logged and never change the response.
func WithExchangeRecorder(r ExchangeRecorder) Option {
	return func(s *ChatService) {
		s.exchanges = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ChatService) {
		if l != nil {
			s.log = l
		}
	}
}

type ChatInput struct {
	Message   string
	RequestID string
}

type ChatOutput struct {
	Response string
}

func NewChatService(p CompletionProvider, c CredentialSource, systemPrompt string, opts ...Option) (*ChatService, error) {
	if p == nil {
		return nil, errors.New("usecase: completion provider must not be nil")
	}
	if c == nil {
		return nil, errors.New("usecase: credential source must not be nil")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("usecase: system prompt must not be empty")
	}
	s := &ChatService{
		provider:     p,
		credentials:  c,
		systemPrompt: systemPrompt,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckConfigured reports the same configuration error Chat would, without
// touching the request. Callers use it to reject before decoding a body.
func (s *ChatService) CheckConfigured(ctx context.Context) error {
	_, err := s.apiKey(ctx)
	return err
}

func (s *ChatService) apiKey(ctx context.Context) (string, error) {
	apiKey, err := s.credentials.APIKey(ctx)
	if err != nil {
		return "", newError(ErrorConfiguration, "credential_load_error", s.credentials.Name()+" could not be loaded", err)
	}
	if apiKey == "" {
		return "", newError(ErrorConfiguration, "credential_missing", s.credentials.Name()+" not configured", nil)
	}
	return apiKey, nil
}

// Chat forwards the message as sent; a message of only whitespace is rejected as empty.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	apiKey, err := s.apiKey(ctx)
	if err != nil {
		return ChatOutput{}, err
	}

	message := in.Message
	if strings.TrimSpace(message) == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", "Message required", nil)
	}

	start := time.Now()
	text, err := s.provider.Complete(ctx, apiKey, buildPromptMessages(s.systemPrompt, message))
	metrics.VendorCallDuration.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		var vendorErr *domain.VendorError
		if errors.As(err, &vendorErr) {
			return ChatOutput{}, newError(ErrorUpstream, "vendor_error", vendorErr.Message, err)
		}
		return ChatOutput{}, newError(ErrorInternal, "vendor_call_error", unexpectedMessage(err), err)
	}
	if text == "" {
		text = FallbackResponse
	}

	s.recordExchange(ctx, in.RequestID, message, text)
	return ChatOutput{Response: text}, nil
}

func (s *ChatService) recordExchange(ctx context.Context, requestID, message, response string) {
	if s.exchanges == nil {
		return
	}
	now := time.Now().UTC()
	ex := domain.Exchange{
		ID:        newUUID(),
		RequestID: requestID,
		Provider:  s.provider.Name(),
		Message:   message,
		Response:  response,
		CreatedAt: now.Format(time.RFC3339Nano),
		TTL:       now.Add(exchangeTTL).Unix(),
	}
	if err := s.exchanges.RecordExchange(ctx, ex); err != nil {
		s.log.Warn("failed to record exchange",
			zap.String("requestId", requestID),
			zap.String("exchangeId", ex.ID),
			zap.Error(err),
		)
	}
}

var newUUID = func() string {
	return uuid.NewString()
}
