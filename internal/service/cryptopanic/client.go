// Package cryptopanic fetches token headlines from CryptoPanic, rotating
// through a pool of API keys when one is rejected or rate limited.
package cryptopanic

import (
	"context"
	"net/http"
	"strings"
	"time"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	"YieldSense/internal/service/credentials"
	xhttp "YieldSense/pkg/http"
	applogger "YieldSense/pkg/logger"
)

const upstream = "cryptopanic"

// currencies maps tokens to CryptoPanic currency tags. Unlisted tokens use
// their upper-case symbol.
var currencies = map[string]string{
	"sol":            "SOL",
	"jup":            "JUP",
	"jupsol":         "jupiter-staked-sol",
	"pengu":          "PENGU",
	"pudgy-penguins": "PENGU",
	"usdc":           "USD",
	"usdt":           "USD",
}

// CurrencyTag returns the CryptoPanic currency for token.
func CurrencyTag(token string) string {
	if tag, ok := currencies[strings.ToLower(token)]; ok {
		return tag
	}
	return strings.ToUpper(token)
}

type postsResponse struct {
	Results []struct {
		Title string `json:"title"`
	} `json:"results"`
}

// Client is a NewsFetcher backed by CryptoPanic.
type Client struct {
	http         *xhttp.Client
	baseURL      string
	timeout      time.Duration
	maxHeadlines int
	rotator      *credentials.Rotator
	metrics      domrepo.Metrics
	l            *applogger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMaxHeadlines(n int) Option {
	return func(c *Client) { c.maxHeadlines = n }
}

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

func New(rotator *credentials.Rotator, opts ...Option) *Client {
	c := &Client{
		baseURL:      "https://cryptopanic.com/api/developer/v2",
		timeout:      5 * time.Second,
		maxHeadlines: 10,
		rotator:      rotator,
		l:            applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	return c
}

// Fetch returns up to maxHeadlines non-empty titles in provider order. Each
// failed attempt advances the shared rotator; after one attempt per key the
// result is empty rather than an error.
func (c *Client) Fetch(ctx context.Context, token models.TokenSymbol) []models.Headline {
	attempts := c.rotator.Size()
	currency := CurrencyTag(token.String())

	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			break
		}
		key, idx, ok := c.rotator.Current()
		if !ok {
			break
		}

		titles, err := c.fetchOnce(ctx, key, currency)
		if err == nil {
			return toHeadlines(titles, token, c.maxHeadlines)
		}

		status := xhttp.StatusCode(err)
		fields := []applogger.Field{
			applogger.String("token", token.String()),
			applogger.Int("credential", idx),
			applogger.Int("status", status),
			applogger.Error(err),
		}
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			c.record("rejected")
			c.l.Warn("cryptopanic.fetch credential_rejected", fields...)
		default:
			c.record("error")
			c.l.Warn("cryptopanic.fetch failed", fields...)
		}
		c.rotator.Advance()
		if c.metrics != nil {
			c.metrics.RecordRotation()
		}
	}

	return []models.Headline{}
}

func (c *Client) fetchOnce(ctx context.Context, key, currency string) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp postsResponse
	err := c.http.SendAndParse(callCtx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/posts/",
		QueryParams: map[string][]string{
			"auth_token": {key},
			"currencies": {currency},
			"kind":       {"news"},
			"public":     {"true"},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.record("ok")

	titles := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		titles = append(titles, r.Title)
	}
	return titles, nil
}

func toHeadlines(titles []string, token models.TokenSymbol, limit int) []models.Headline {
	out := make([]models.Headline, 0, limit)
	for _, t := range titles {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, models.Headline{Text: t, SourceToken: token})
		if len(out) == limit {
			break
		}
	}
	return out
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordUpstream(upstream, outcome)
	}
}
