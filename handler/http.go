package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

// ServeHTTP runs Handle for a plain net/http request, so the same handler can
// back a local server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		correlationID := correlationIDFrom(headers)
		msg := "Error: failed to read request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("Error: request body exceeds %d bytes", tooLarge.Limit)
		}
		h.log.Warn("rejected chat request body",
			zap.String("correlationId", correlationID),
			zap.Error(err),
		)
		writeResponse(w, jsonResponse(http.StatusInternalServerError, errorResponse{Error: msg}, correlationID))
		return
	}

	resp, _ := h.Handle(r.Context(), events.APIGatewayProxyRequest{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
		Headers:    headers,
		Body:       string(body),
	})
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
