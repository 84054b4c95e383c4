// Package credentials resolves the vendor API key: the process environment
// first, then an optional SSM parameter.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"consult-agent/internal/integrations/paramstore"
)

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// tokenPayload is the JSON shape accepted for parameter values. Plain string
// values are accepted as well.
type tokenPayload struct {
	Token string `json:"token"`
}

// Resolver returns the API key for one vendor. A value fetched from SSM is
// cached for the process lifetime; failed fetches are retried on the next call.
type Resolver struct {
	name      string
	value     string
	getter    Getter
	parameter string

	mu     sync.RWMutex
	cached string
}

type Option func(*Resolver)

// WithParameter makes the resolver fall back to the named SSM parameter when the
// environment value is empty.
func WithParameter(g Getter, parameter string) Option {
	return func(r *Resolver) {
		r.getter = g
		r.parameter = strings.TrimSpace(parameter)
	}
}

// New builds a resolver for the environment variable name whose value was
// read at startup.
func New(name, value string, opts ...Option) (*Resolver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("credentials: name must not be empty")
	}
	r := &Resolver{name: name, value: strings.TrimSpace(value)}
	for _, opt := range opts {
		opt(r)
	}
	if r.getter != nil && r.parameter == "" {
		return nil, errors.New("credentials: parameter name must not be empty")
	}
	return r, nil
}

func (r *Resolver) Name() string { return r.name }

// APIKey returns "" with a nil error when no credential is configured anywhere.
func (r *Resolver) APIKey(ctx context.Context) (string, error) {
	if r.value != "" {
		return r.value, nil
	}
	if r.getter == nil {
		return "", nil
	}

	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != "" {
		return r.cached, nil
	}

	raw, err := r.getter.GetParameter(ctx, r.parameter)
	if errors.Is(err, paramstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials: fetch %s from parameter %q: %w", r.name, r.parameter, err)
	}
	r.cached = parseToken(raw)
	return r.cached, nil
}

func parseToken(raw string) string {
	raw = strings.TrimSpace(raw)
	var tp tokenPayload
	if strings.HasPrefix(raw, "{") && json.Unmarshal([]byte(raw), &tp) == nil {
		return strings.TrimSpace(tp.Token)
	}
	return raw
}
