// Package dexscreener resolves token USD prices from the DexScreener API.
package dexscreener

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	xhttp "YieldSense/pkg/http"
	applogger "YieldSense/pkg/logger"
	"YieldSense/pkg/util"
)

const upstream = "dexscreener"

// Client is a PriceResolver backed by DexScreener.
type Client struct {
	http     *xhttp.Client
	baseURL  string
	chainID  string
	topPairs int
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithChainID restricts accepted pairs to one chain.
func WithChainID(id string) Option {
	return func(c *Client) { c.chainID = id }
}

// WithTopPairs sets how many of the most liquid pairs are examined.
func WithTopPairs(n int) Option {
	return func(c *Client) { c.topPairs = n }
}

// WithTimeout sets the per-call budget, including time spent waiting on the limiter.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRatePerMinute paces outgoing calls; 0 disables pacing.
func WithRatePerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), max(1, n/60))
	}
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

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  "https://api.dexscreener.com",
		chainID:  "solana",
		topPairs: 3,
		timeout:  5 * time.Second,
		l:        applogger.Nop(),
	}
	WithRatePerMinute(300)(c)
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	return c
}

// Resolve returns the USD price of token. An override is used verbatim,
// stablecoins are pinned to 1.0, and otherwise the address lookup is tried
// before the symbol search. Only quotes where token is the base side count.
func (c *Client) Resolve(ctx context.Context, token models.TokenSymbol, override *float64) models.PricePoint {
	if override != nil {
		return models.PricePoint{Symbol: token, USD: *override, Source: models.SourceOverride}
	}
	if token.Stablecoin() {
		return models.PricePoint{Symbol: token, USD: 1.0, Source: models.SourceStablecoin}
	}

	address, _ := token.Address()
	for _, endpoint := range c.candidates(token, address) {
		price, err := c.query(ctx, endpoint, token, address)
		if err != nil {
			c.l.Debug("dexscreener.resolve candidate_failed",
				applogger.String("token", token.String()),
				applogger.String("url", endpoint),
				applogger.Error(err),
			)
			continue
		}
		if price > 0 {
			if c.metrics != nil {
				c.metrics.RecordLastPrice(token.String(), price)
			}
			return models.PricePoint{Symbol: token, USD: price, Source: models.SourceDexScreener}
		}
	}

	c.l.Warn("dexscreener.resolve unresolved", applogger.String("token", token.String()))
	return models.PricePoint{Symbol: token, USD: 0, Source: models.SourceUnresolved}
}

func (c *Client) candidates(token models.TokenSymbol, address string) []string {
	out := make([]string, 0, 2)
	if address != "" {
		out = append(out, fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, url.PathEscape(address)))
	}
	out = append(out, fmt.Sprintf("%s/latest/dex/search?q=%s", c.baseURL, url.QueryEscape(token.Upper())))
	return out
}

// query performs one candidate lookup. A zero price with a nil error means
// the response held no acceptable quote.
func (c *Client) query(ctx context.Context, endpoint string, token models.TokenSymbol, address string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(callCtx); err != nil {
			c.record("throttled")
			return 0, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var resp pairsResponse
	err := c.http.SendAndParse(callCtx, &xhttp.RequestOptions{Method: xhttp.MethodGet, URL: endpoint}, &resp)
	if err != nil {
		c.record("error")
		return 0, err
	}
	c.record("ok")

	return c.pick(resp.Pairs, token, address), nil
}

// pick filters to the target chain, orders by liquidity and returns the
// first finite positive base-side price among the top pairs.
func (c *Client) pick(pairs []pair, token models.TokenSymbol, address string) float64 {
	onChain := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		if p.ChainID == c.chainID {
			onChain = append(onChain, p)
		}
	}
	sort.SliceStable(onChain, func(i, j int) bool {
		return onChain[i].liquidityUSD() > onChain[j].liquidityUSD()
	})
	if len(onChain) > c.topPairs {
		onChain = onChain[:c.topPairs]
	}

	for _, p := range onChain {
		isBase := strings.EqualFold(p.BaseToken.Symbol, token.String()) ||
			(address != "" && p.BaseToken.Address == address)
		if !isBase {
			continue
		}
		price := float64(p.PriceUSD)
		if price > 0 && util.IsFinite(price) {
			return price
		}
	}
	return 0
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordUpstream(upstream, outcome)
	}
}
