package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YieldSense/internal/domain/models"
)

const solMint = "So11111111111111111111111111111111111111112"

type fakeDex struct {
	calls  atomic.Int32
	tokens func(w http.ResponseWriter)
	search func(w http.ResponseWriter)
}

func (f *fakeDex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasPrefix(r.URL.Path, "/latest/dex/tokens/"):
		if f.tokens == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.tokens(w)
	case r.URL.Path == "/latest/dex/search":
		if f.search == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.search(w)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func body(s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { _, _ = w.Write([]byte(s)) }
}

func newTestClient(t *testing.T, f *fakeDex) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithRatePerMinute(0))
}

func TestResolveStablecoinMakesNoCalls(t *testing.T) {
	f := &fakeDex{tokens: body(`{"pairs":[{"chainId":"solana","baseToken":{"symbol":"USDC"},"priceUsd":"0"}]}`)}
	c := newTestClient(t, f)

	for _, tok := range []models.TokenSymbol{models.TokenUSDC, models.TokenUSDT} {
		p := c.Resolve(context.Background(), tok, nil)
		assert.Equal(t, 1.0, p.USD)
		assert.Equal(t, models.SourceStablecoin, p.Source)
	}
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestResolveOverrideIsVerbatim(t *testing.T) {
	f := &fakeDex{}
	c := newTestClient(t, f)

	price := 150.0
	p := c.Resolve(context.Background(), models.TokenSOL, &price)
	assert.Equal(t, 150.0, p.USD)
	assert.Equal(t, models.SourceOverride, p.Source)
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestResolveRejectsQuoteSide(t *testing.T) {
	// SOL only appears as the quote token: no price may be derived from it.
	f := &fakeDex{
		tokens: body(`{"pairs":[
			{"chainId":"solana","baseToken":{"symbol":"BONK","address":"x"},"quoteToken":{"symbol":"SOL","address":"` + solMint + `"},"priceUsd":"0.00002","liquidity":{"usd":9000000}}
		]}`),
		search: body(`{"pairs":[]}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenSOL, nil)
	assert.Equal(t, 0.0, p.USD)
	assert.Equal(t, models.SourceUnresolved, p.Source)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestResolvePrefersMostLiquidBasePair(t *testing.T) {
	f := &fakeDex{
		tokens: body(`{"pairs":[
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"priceUsd":"140.0","liquidity":{"usd":1000}},
			{"chainId":"ethereum","baseToken":{"symbol":"SOL"},"priceUsd":"999.0","liquidity":{"usd":99999999}},
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"priceUsd":"151.25","liquidity":{"usd":5000000}},
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"priceUsd":"150.0","liquidity":{"usd":200000}}
		]}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenSOL, nil)
	assert.Equal(t, 151.25, p.USD)
	assert.Equal(t, models.SourceDexScreener, p.Source)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestResolveOnlyExaminesTopPairs(t *testing.T) {
	// The only base-side quote is the fourth most liquid pair.
	f := &fakeDex{
		tokens: body(`{"pairs":[
			{"chainId":"solana","baseToken":{"symbol":"USDC"},"quoteToken":{"symbol":"JUP"},"priceUsd":"1","liquidity":{"usd":400}},
			{"chainId":"solana","baseToken":{"symbol":"USDT"},"quoteToken":{"symbol":"JUP"},"priceUsd":"1","liquidity":{"usd":300}},
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"quoteToken":{"symbol":"JUP"},"priceUsd":"150","liquidity":{"usd":200}},
			{"chainId":"solana","baseToken":{"symbol":"JUP"},"priceUsd":"0.9","liquidity":{"usd":100}}
		]}`),
		search: body(`{"pairs":null}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenJUP, nil)
	assert.Equal(t, 0.0, p.USD)
}

func TestResolveFallsBackToSearch(t *testing.T) {
	f := &fakeDex{
		tokens: nil, // 404
		search: body(`{"pairs":[{"chainId":"solana","baseToken":{"symbol":"PENGU"},"priceUsd":"0.031","liquidity":{"usd":10}}]}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenPENGU, nil)
	assert.Equal(t, 0.031, p.USD)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestResolveMatchesBaseByAddress(t *testing.T) {
	f := &fakeDex{
		tokens: body(`{"pairs":[{"chainId":"solana","baseToken":{"symbol":"WSOL","address":"` + solMint + `"},"priceUsd":148.5,"liquidity":{"usd":10}}]}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenSOL, nil)
	assert.Equal(t, 148.5, p.USD)
}

func TestResolveSkipsMalformedPrice(t *testing.T) {
	f := &fakeDex{
		tokens: body(`{"pairs":[
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"priceUsd":"n/a","liquidity":{"usd":500}},
			{"chainId":"solana","baseToken":{"symbol":"SOL"},"priceUsd":"149","liquidity":{"usd":100}}
		]}`),
	}
	c := newTestClient(t, f)

	p := c.Resolve(context.Background(), models.TokenSOL, nil)
	require.Equal(t, models.SourceDexScreener, p.Source)
	assert.Equal(t, 149.0, p.USD)
}
