package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	pcache "YieldSense/pkg/cache"
	applogger "YieldSense/pkg/logger"
	"YieldSense/pkg/util"
)

const (
	analysisCachePrefix = "analysis:quick"
	defaultAnalysisTTL  = 60 * time.Second
	maxPrice            = 1e9
)

// QuickAnalysisUseCase produces the pair safety analysis: it resolves both
// prices and both headline sets concurrently, runs the bounds model on a
// bounded pool, perturbs the scores and caches the serialized response.
type QuickAnalysisUseCase struct {
	prices  domsvc.PriceResolver
	news    domsvc.NewsFetcher
	bounds  domsvc.BoundsCalculator
	noise   domsvc.NoiseFilter
	canary  domsvc.AbuseDetector
	cache   domrepo.ResponseCache
	caps    models.Capabilities
	pool    *semaphore.Weighted
	timeout time.Duration
	ttl     time.Duration
	metrics domrepo.Metrics
	l       *applogger.Logger
}

type QuickAnalysisDeps struct {
	Prices  domsvc.PriceResolver
	News    domsvc.NewsFetcher
	Bounds  domsvc.BoundsCalculator
	Noise   domsvc.NoiseFilter
	Canary  domsvc.AbuseDetector
	Cache   domrepo.ResponseCache
	Caps    models.Capabilities
	Metrics domrepo.Metrics
	Logger  *applogger.Logger
}

type QuickAnalysisOption func(*QuickAnalysisUseCase)

// WithRequestTimeout bounds the whole orchestration.
func WithRequestTimeout(d time.Duration) QuickAnalysisOption {
	return func(uc *QuickAnalysisUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

func WithAnalysisTTL(d time.Duration) QuickAnalysisOption {
	return func(uc *QuickAnalysisUseCase) {
		if d > 0 {
			uc.ttl = d
		}
	}
}

// WithMaxConcurrentBounds caps concurrent bounds model calls across requests.
func WithMaxConcurrentBounds(n int) QuickAnalysisOption {
	return func(uc *QuickAnalysisUseCase) {
		if n > 0 {
			uc.pool = semaphore.NewWeighted(int64(n))
		}
	}
}

func NewQuickAnalysisUseCase(d QuickAnalysisDeps, opts ...QuickAnalysisOption) *QuickAnalysisUseCase {
	uc := &QuickAnalysisUseCase{
		prices:  d.Prices,
		news:    d.News,
		bounds:  d.Bounds,
		noise:   d.Noise,
		canary:  d.Canary,
		cache:   d.Cache,
		caps:    d.Caps,
		metrics: d.Metrics,
		l:       d.Logger,
		pool:    semaphore.NewWeighted(4),
		timeout: 30 * time.Second,
		ttl:     defaultAnalysisTTL,
	}
	if uc.l == nil {
		uc.l = applogger.Nop()
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AnalysisCacheKey is the cache key for a request. Side order is preserved
// because the response is positional; a missing price renders as '-'.
func AnalysisCacheKey(a, b models.TokenSymbol, priceA, priceB *float64) string {
	return pcache.GenerateKeyWithParams(analysisCachePrefix, a, b, formatPrice(priceA), formatPrice(priceB))
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

// ValidatePrice rejects non-positive, absurdly large and NaN overrides.
func ValidatePrice(p *float64) error {
	if p == nil {
		return nil
	}
	v := *p
	if math.IsNaN(v) || v <= 0 || v > maxPrice {
		return fmt.Errorf("%w: %v", models.ErrInvalidPrice, v)
	}
	return nil
}

// Analyze returns the serialized AnalysisResponse and whether it came from cache.
func (uc *QuickAnalysisUseCase) Analyze(ctx context.Context, req models.QuickAnalysisRequest) ([]byte, bool, error) {
	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordLatency("quick_analysis", time.Since(start))
		}
	}()

	rawA := models.TokenSymbol(strings.ToLower(strings.TrimSpace(req.TokenA)))
	rawB := models.TokenSymbol(strings.ToLower(strings.TrimSpace(req.TokenB)))
	if uc.canary != nil && uc.canary.Observe(ctx, rawA, rawB) {
		uc.l.Warn("usecase.quick_analysis probe suspected", applogger.String("token_a", rawA.String()), applogger.String("token_b", rawB.String()))
	}

	if err := ValidatePrice(req.PriceA); err != nil {
		return nil, false, err
	}
	if err := ValidatePrice(req.PriceB); err != nil {
		return nil, false, err
	}
	tokenA, err := models.ParseToken(req.TokenA)
	if err != nil {
		return nil, false, err
	}
	tokenB, err := models.ParseToken(req.TokenB)
	if err != nil {
		return nil, false, err
	}

	key := AnalysisCacheKey(tokenA, tokenB, req.PriceA, req.PriceB)
	if b, ok := uc.cache.Get(ctx, key); ok {
		return b, true, nil
	}

	if !uc.caps.Bounds || uc.bounds == nil {
		return nil, false, fmt.Errorf("bounds model: %w", models.ErrCapabilityUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	in := uc.gather(ctx, tokenA, tokenB, req.PriceA, req.PriceB)

	results, err := uc.computeBounds(ctx, in)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("bounds")
		}
		return nil, false, err
	}

	resp := uc.assemble(results[0], results[1])
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, false, fmt.Errorf("encode analysis: %w", err)
	}

	uc.cache.Set(ctx, key, body, uc.ttl)
	uc.l.Info("usecase.quick_analysis done",
		applogger.String("token_a", tokenA.String()),
		applogger.String("token_b", tokenB.String()),
		applogger.Float64("safety_score", float64(resp.Overall.SafetyScore)),
		applogger.Duration("latency_ms", time.Since(start)),
	)
	return body, false, nil
}

// gather fans out the four independent lookups and joins them. None of them
// fail: an unresolved price is 0 and a failed news fetch is empty.
func (uc *QuickAnalysisUseCase) gather(ctx context.Context, a, b models.TokenSymbol, pa, pb *float64) [2]models.BoundsInput {
	in := [2]models.BoundsInput{{Token: a}, {Token: b}}
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		in[0].Price = uc.prices.Resolve(ctx, a, pa).USD
	}()
	go func() {
		defer wg.Done()
		in[1].Price = uc.prices.Resolve(ctx, b, pb).USD
	}()
	go func() {
		defer wg.Done()
		in[0].Headlines = models.Texts(uc.news.Fetch(ctx, a))
	}()
	go func() {
		defer wg.Done()
		in[1].Headlines = models.Texts(uc.news.Fetch(ctx, b))
	}()
	wg.Wait()

	return in
}

func (uc *QuickAnalysisUseCase) computeBounds(ctx context.Context, in [2]models.BoundsInput) ([2]models.BoundsResult, error) {
	var out [2]models.BoundsResult
	g, gctx := errgroup.WithContext(ctx)

	for i := range in {
		i := i
		g.Go(func() error {
			if err := uc.pool.Acquire(gctx, 1); err != nil {
				return fmt.Errorf("%w: %v", models.ErrBoundsComputation, err)
			}
			defer uc.pool.Release(1)

			res, err := uc.bounds.CalculateBounds(gctx, in[i])
			if err != nil {
				return fmt.Errorf("%w: %s: %v", models.ErrBoundsComputation, in[i].Token, err)
			}
			res.Symbol = in[i].Token.Upper()
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

func (uc *QuickAnalysisUseCase) assemble(a, b models.BoundsResult) models.AnalysisResponse {
	a.SafetyScore = util.Float(uc.applyNoise(float64(a.SafetyScore)))
	b.SafetyScore = util.Float(uc.applyNoise(float64(b.SafetyScore)))

	avg := (float64(a.SafetyScore) + float64(b.SafetyScore)) / 2
	rec, sig := models.Classify(avg)

	return models.AnalysisResponse{
		Success: true,
		TokenA:  a,
		TokenB:  b,
		Overall: models.Overall{
			SafetyScore:    util.Float(util.Round(avg, 1)),
			Recommendation: rec,
			Signal:         sig,
			Message:        models.AnalysisMessage,
		},
	}
}

func (uc *QuickAnalysisUseCase) applyNoise(v float64) float64 {
	if uc.noise == nil || !util.IsFinite(v) {
		return v
	}
	return uc.noise.Apply(v)
}

// IsInputError reports whether err should be surfaced as a client error.
func IsInputError(err error) bool {
	return errors.Is(err, models.ErrUnsupportedToken) || errors.Is(err, models.ErrInvalidPrice)
}
