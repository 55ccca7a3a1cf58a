// Package staking reads liquid staking yields from the staking data service.
package staking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	xhttp "YieldSense/pkg/http"
	"YieldSense/pkg/util"
)

const upstream = "staking"

var ErrNotConfigured = errors.New("staking service not configured")

// Client is a StakingSource. Payloads are passed through after non-finite
// numbers are replaced with null.
type Client struct {
	http    *xhttp.Client
	baseURL string
	timeout time.Duration
	metrics domrepo.Metrics
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	return c
}

func (c *Client) AllAPY(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/apy", &out); err != nil {
		return nil, err
	}
	clean, _ := util.Sanitize(out).(map[string]any)
	if clean == nil {
		clean = map[string]any{}
	}
	return clean, nil
}

func (c *Client) TokenAPY(ctx context.Context, token string) (any, error) {
	var out any
	if err := c.get(ctx, "/apy/"+url.PathEscape(strings.ToLower(token)), &out); err != nil {
		return nil, err
	}
	return util.Sanitize(out), nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
	}, dest)
	c.record(err)
	if err != nil {
		return fmt.Errorf("staking %s: %w", path, err)
	}
	return nil
}

func (c *Client) record(err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.RecordUpstream(upstream, outcome)
}

var _ domsvc.StakingSource = (*Client)(nil)
