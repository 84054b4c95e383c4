package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"consult-agent/internal/domain"
)

func TestChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://api.groq.com/openai/v1", "https://api.groq.com/openai/v1/chat/completions"},
		{"https://api.groq.com/openai/v1/", "https://api.groq.com/openai/v1/chat/completions"},
		{"http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
		{"", "https://api.groq.com/openai/v1/chat/completions"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, chatURL(tc.base), "base=%q", tc.base)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()
	require.Equal(t, DefaultBaseURL, c.baseURL)
	require.Equal(t, Name, c.Name())

	c = NewClient(WithBaseURL("  "))
	require.Equal(t, DefaultBaseURL, c.baseURL)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
	)
}

var testMessages = []domain.ChatMessage{
	{Role: domain.RoleSystem, Content: "system prompt"},
	{Role: domain.RoleUser, Content: "hi"},
}

func TestClient_Complete_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "llama-3.3-70b-versatile", req.Model)
		require.Equal(t, 500, req.MaxTokens)
		require.Equal(t, 0.7, req.Temperature)
		require.Equal(t, testMessages, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": { "role": "assistant", "content": "Hello" }
			}]
		}`))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv).Complete(context.Background(), "gsk-test", testMessages)
	require.NoError(t, err)
	require.Equal(t, "Hello", text)
}

func TestClient_Complete_NoChoices(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `{}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		text, err := newTestClient(t, srv).Complete(context.Background(), "gsk-test", testMessages)
		srv.Close()
		require.NoError(t, err)
		require.Empty(t, text)
	}
}

func TestClient_Complete_VendorErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Complete(context.Background(), "gsk-bad", testMessages)
	var vendorErr *domain.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, http.StatusUnauthorized, vendorErr.StatusCode)
	require.Equal(t, "Invalid API Key", vendorErr.Message)
	require.Equal(t, Name, vendorErr.Vendor)
}

func TestClient_Complete_VendorErrorRawPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"over capacity"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Complete(context.Background(), "gsk-test", testMessages)
	var vendorErr *domain.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, `{"detail":"over capacity"}`, vendorErr.Message)
}

func TestClient_Complete_VendorErrorEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Complete(context.Background(), "gsk-test", testMessages)
	var vendorErr *domain.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, "Bad Gateway", vendorErr.Message)
}

func TestClient_Complete_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-a-json`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Complete(context.Background(), "gsk-test", testMessages)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
	var vendorErr *domain.VendorError
	require.False(t, errors.As(err, &vendorErr))
}

func TestClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}
	_, err := c.Complete(context.Background(), "gsk-test", testMessages)
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed")
}

func TestClient_Complete_NetworkError(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}))
	_, err := c.Complete(context.Background(), "gsk-test", testMessages)
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed")
}

func TestClient_Complete_EmptyAPIKey(t *testing.T) {
	_, err := NewClient().Complete(context.Background(), "", testMessages)
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}
