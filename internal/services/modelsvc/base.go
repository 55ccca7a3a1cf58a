// Package modelsvc reaches the model service that hosts the bounds model,
// the tokenizer and the sentiment classifier.
package modelsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	domrepo "YieldSense/internal/domain/repository"
	"YieldSense/pkg/config"
	xhttp "YieldSense/pkg/http"
)

// ErrNotConfigured is returned when no model service URL is set.
var ErrNotConfigured = errors.New("model service not configured")

// HTTPServiceBase centralizes client construction, JSON requests and the
// circuit breaker shared by all model service clients.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	cb      *gobreaker.CircuitBreaker
	metrics domrepo.Metrics
}

// BaseOption configures HTTPServiceBase.
type BaseOption func(*HTTPServiceBase)

// WithClient replaces the HTTP client.
func WithClient(c *xhttp.Client) BaseOption {
	return func(b *HTTPServiceBase) { b.client = c }
}

// WithMetrics records per-endpoint latency and outcome.
func WithMetrics(m domrepo.Metrics) BaseOption {
	return func(b *HTTPServiceBase) { b.metrics = m }
}

// NewHTTPServiceBase builds the client from the models section of cfg.
func NewHTTPServiceBase(cfg *config.Config, opts ...BaseOption) *HTTPServiceBase {
	timeout := cfg.Models.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b := &HTTPServiceBase{
		baseURL: strings.TrimRight(cfg.Models.ServiceURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "model-service",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
			// A 4xx is the caller's fault and says nothing about service health.
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				code := xhttp.StatusCode(err)
				return code >= 400 && code < 500
			},
		}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Configured reports whether a service URL is set.
func (b *HTTPServiceBase) Configured() bool {
	return b.baseURL != ""
}

// PostJSON posts payload to path and decodes the JSON reply into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload, dest interface{}) error {
	return b.do(ctx, http.MethodPost, path, payload, dest)
}

// GetJSON fetches path and decodes the JSON reply into dest.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, dest interface{}) error {
	return b.do(ctx, http.MethodGet, path, nil, dest)
}

// State exposes the breaker state for health reporting.
func (b *HTTPServiceBase) State() string {
	return b.cb.State().String()
}

func (b *HTTPServiceBase) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	if !b.Configured() {
		return ErrNotConfigured
	}
	start := time.Now()
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: method,
			URL:    b.baseURL + path,
			Body:   payload,
		}, dest)
	})
	b.record(path, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(method), path, err)
	}
	return nil
}

func (b *HTTPServiceBase) record(path string, d time.Duration, err error) {
	if b.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "circuit_open"
	case err != nil:
		outcome = "error"
	}
	b.metrics.RecordUpstream("modelsvc", outcome)
	b.metrics.RecordLatency("modelsvc"+path, d)
}
