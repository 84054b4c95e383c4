// Package handler exposes the chat use case as an API Gateway Lambda handler.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"consult-agent/internal/metrics"
	"consult-agent/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"

	methodNotAllowedCode = "METHOD_NOT_ALLOWED"
	methodNotAllowedMsg  = "Method not allowed"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

type ChatUseCase interface {
	CheckConfigured(ctx context.Context) error
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type Handler struct {
	chat ChatUseCase
	log  *zap.Logger
}

type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHandler(chat ChatUseCase, opts ...Option) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	h := &Handler{chat: chat, log: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handle never returns a non-nil error: every failure, including a panic
// further down, becomes a JSON error response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	correlationID := correlationIDFrom(req.Headers)
	method := strings.ToUpper(strings.TrimSpace(req.HTTPMethod))
	log := h.log.With(
		zap.String("correlationId", correlationID),
		zap.String("method", method),
		zap.String("path", req.Path),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling chat request",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			metrics.ChatErrors.WithLabelValues(string(usecase.ErrorInternal)).Inc()
			resp = jsonResponse(http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("Error: %v", r)}, correlationID)
			err = nil
		}
		metrics.ChatRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	}()

	switch method {
	case http.MethodOptions:
		return emptyResponse(http.StatusOK, correlationID), nil
	case http.MethodPost:
	default:
		metrics.ChatErrors.WithLabelValues(methodNotAllowedCode).Inc()
		return jsonResponse(http.StatusMethodNotAllowed, errorResponse{Error: methodNotAllowedMsg}, correlationID), nil
	}

	if err := h.chat.CheckConfigured(ctx); err != nil {
		status, msg := h.mapError(log, err)
		return jsonResponse(status, errorResponse{Error: msg}, correlationID), nil
	}

	var body chatRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		log.Error("failed to decode chat request", zap.Error(err), zap.Stack("stack"))
		metrics.ChatErrors.WithLabelValues(string(usecase.ErrorInternal)).Inc()
		return jsonResponse(http.StatusInternalServerError, errorResponse{Error: "Error: " + err.Error()}, correlationID), nil
	}

	out, err := h.chat.Chat(ctx, usecase.ChatInput{Message: body.Message, RequestID: correlationID})
	if err != nil {
		status, msg := h.mapError(log, err)
		return jsonResponse(status, errorResponse{Error: msg}, correlationID), nil
	}

	log.Info("chat request answered", zap.Int("responseLength", len(out.Response)))
	return jsonResponse(http.StatusOK, chatResponse{Response: out.Response}, correlationID), nil
}

// mapError logs err and returns the HTTP status and caller-facing message for it.
func (h *Handler) mapError(log *zap.Logger, err error) (int, string) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		log.Error("unexpected chat error", zap.Error(err), zap.Stack("stack"))
		metrics.ChatErrors.WithLabelValues(string(usecase.ErrorInternal)).Inc()
		return http.StatusInternalServerError, "Error: " + err.Error()
	}

	metrics.ChatErrors.WithLabelValues(string(ucErr.Code)).Inc()
	fields := []zap.Field{
		zap.String("code", string(ucErr.Code)),
		zap.String("reason", ucErr.Reason),
		zap.Error(ucErr.Err),
	}
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		log.Info("rejected chat request", fields...)
		return http.StatusBadRequest, ucErr.Message
	case usecase.ErrorConfiguration:
		log.Error("chat is not configured", fields...)
	case usecase.ErrorUpstream:
		log.Error("vendor rejected chat completion", append(fields, zap.String("vendorMessage", ucErr.Message))...)
	default:
		log.Error("chat request failed", append(fields, zap.Stack("stack"))...)
	}
	return http.StatusInternalServerError, ucErr.Message
}

func correlationIDFrom(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return uuid.NewString()
}

func baseHeaders(correlationID string) map[string]string {
	headers := make(map[string]string, len(corsHeaders)+2)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	headers[correlationHeader] = correlationID
	return headers
}

func emptyResponse(status int, correlationID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    baseHeaders(correlationID),
	}
}

func jsonResponse(status int, payload any, correlationID string) events.APIGatewayProxyResponse {
	resp := emptyResponse(status, correlationID)
	resp.Headers["Content-Type"] = "application/json"
	b, err := json.Marshal(payload)
	if err != nil {
		resp.StatusCode = http.StatusInternalServerError
		b = []byte(`{"error":"Error: failed to encode response"}`)
	}
	resp.Body = string(b)
	return resp
}
