package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"YieldSense/internal/domain/models"
	respcache "YieldSense/internal/service/cache"
	pcache "YieldSense/pkg/cache"
	"YieldSense/pkg/util"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls []models.TokenSymbol
	spot  map[models.TokenSymbol]float64
}

func (f *fakeResolver) Resolve(_ context.Context, t models.TokenSymbol, override *float64) models.PricePoint {
	f.mu.Lock()
	f.calls = append(f.calls, t)
	f.mu.Unlock()
	switch {
	case override != nil:
		return models.PricePoint{Symbol: t, USD: *override, Source: models.SourceOverride}
	case t.Stablecoin():
		return models.PricePoint{Symbol: t, USD: 1, Source: models.SourceStablecoin}
	}
	if p, ok := f.spot[t]; ok {
		return models.PricePoint{Symbol: t, USD: p, Source: models.SourceDexScreener}
	}
	return models.PricePoint{Symbol: t, Source: models.SourceUnresolved}
}

type fakeNews struct {
	byToken map[models.TokenSymbol][]string
	calls   atomic.Int64
}

func (f *fakeNews) Fetch(_ context.Context, t models.TokenSymbol) []models.Headline {
	f.calls.Add(1)
	out := []models.Headline{}
	for _, s := range f.byToken[t] {
		out = append(out, models.Headline{Text: s, SourceToken: t})
	}
	return out
}

type fakeBounds struct {
	mu       sync.Mutex
	inputs   []models.BoundsInput
	scores   map[models.TokenSymbol]float64
	err      error
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (f *fakeBounds) CalculateBounds(_ context.Context, in models.BoundsInput) (models.BoundsResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if f.err != nil {
		return models.BoundsResult{}, f.err
	}
	return models.BoundsResult{
		Symbol:       in.Token.String(),
		CurrentPrice: util.Float(in.Price),
		LowerBound:   util.Float(in.Price * 0.9),
		UpperBound:   util.Float(in.Price * 1.1),
		SafetyScore:  util.Float(f.scores[in.Token]),
	}, nil
}

func (f *fakeBounds) input(t models.TokenSymbol) (models.BoundsInput, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.inputs {
		if in.Token == t {
			return in, true
		}
	}
	return models.BoundsInput{}, false
}

type zeroNoise struct{}

func (zeroNoise) Apply(v float64) float64 { return v }

type recordingCanary struct{ pairs [][2]models.TokenSymbol }

func (r *recordingCanary) Observe(_ context.Context, a, b models.TokenSymbol) bool {
	r.pairs = append(r.pairs, [2]models.TokenSymbol{a, b})
	return false
}

type fakeScorer struct{ result models.SentimentResult }

func (f fakeScorer) Score(context.Context, []string) models.SentimentResult { return f.result }

var errModelDown = errors.New("model down")

func newMemoryResponseCache() *respcache.ResponseCache {
	return respcache.NewResponseCache(pcache.NewMemoryCache(), nil, nil)
}

func ptr(v float64) *float64 { return &v }
