package usecase

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YieldSense/internal/domain/models"
)

type quickFixture struct {
	uc       *QuickAnalysisUseCase
	resolver *fakeResolver
	news     *fakeNews
	bounds   *fakeBounds
	canary   *recordingCanary
}

func newQuickFixture(caps models.Capabilities, opts ...QuickAnalysisOption) *quickFixture {
	f := &quickFixture{
		resolver: &fakeResolver{spot: map[models.TokenSymbol]float64{models.TokenJUP: 0.8}},
		news: &fakeNews{byToken: map[models.TokenSymbol][]string{
			models.TokenSOL: {"Solana hits new high", "SOL ETF inflows"},
		}},
		bounds: &fakeBounds{scores: map[models.TokenSymbol]float64{
			models.TokenSOL:  80,
			models.TokenUSDC: 90,
			models.TokenJUP:  40,
		}},
		canary: &recordingCanary{},
	}
	f.uc = NewQuickAnalysisUseCase(QuickAnalysisDeps{
		Prices: f.resolver,
		News:   f.news,
		Bounds: f.bounds,
		Noise:  zeroNoise{},
		Canary: f.canary,
		Cache:  newMemoryResponseCache(),
		Caps:   caps,
	}, opts...)
	return f
}

var boundsCaps = models.Capabilities{Bounds: true}

func TestQuickAnalysisSolUSDC(t *testing.T) {
	f := newQuickFixture(boundsCaps)
	req := models.QuickAnalysisRequest{TokenA: "SOL", TokenB: "usdc", PriceA: ptr(150)}

	body, hit, err := f.uc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "SOL", resp.TokenA.Symbol)
	assert.Equal(t, "USDC", resp.TokenB.Symbol)
	assert.Equal(t, 85.0, float64(resp.Overall.SafetyScore))
	assert.Equal(t, models.RecommendSafe, resp.Overall.Recommendation)
	assert.Equal(t, models.SignalBuy, resp.Overall.Signal)
	assert.Equal(t, models.AnalysisMessage, resp.Overall.Message)

	sol, ok := f.bounds.input(models.TokenSOL)
	require.True(t, ok)
	assert.Equal(t, 150.0, sol.Price)
	assert.Equal(t, []string{"Solana hits new high", "SOL ETF inflows"}, sol.Headlines)

	usdc, ok := f.bounds.input(models.TokenUSDC)
	require.True(t, ok)
	assert.Equal(t, 1.0, usdc.Price)
	assert.Empty(t, usdc.Headlines)
}

func TestQuickAnalysisCacheHitIsByteIdentical(t *testing.T) {
	f := newQuickFixture(boundsCaps)
	req := models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc", PriceA: ptr(150)}

	first, hit, err := f.uc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.False(t, hit)

	second, hit, err := f.uc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Len(t, f.bounds.inputs, 2)
	assert.Equal(t, int64(2), f.news.calls.Load())

	// A different override is a different request.
	req.PriceA = ptr(151)
	_, hit, err = f.uc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestQuickAnalysisRejectsInput(t *testing.T) {
	cases := map[string]struct {
		req  models.QuickAnalysisRequest
		want error
	}{
		"unsupported token": {models.QuickAnalysisRequest{TokenA: "bonk", TokenB: "sol"}, models.ErrUnsupportedToken},
		"zero price":        {models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc", PriceA: ptr(0)}, models.ErrInvalidPrice},
		"negative price":    {models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc", PriceB: ptr(-3)}, models.ErrInvalidPrice},
		"huge price":        {models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc", PriceA: ptr(2e9)}, models.ErrInvalidPrice},
		"nan price":         {models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc", PriceA: ptr(math.NaN())}, models.ErrInvalidPrice},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newQuickFixture(boundsCaps)
			_, _, err := f.uc.Analyze(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, IsInputError(err))
			assert.Empty(t, f.resolver.calls)
			assert.Zero(t, f.news.calls.Load())
			assert.Len(t, f.canary.pairs, 1)
		})
	}
}

func TestQuickAnalysisWithoutBoundsModel(t *testing.T) {
	f := newQuickFixture(models.Capabilities{})
	_, _, err := f.uc.Analyze(context.Background(), models.QuickAnalysisRequest{TokenA: "sol", TokenB: "jup"})
	assert.ErrorIs(t, err, models.ErrCapabilityUnavailable)
	assert.Empty(t, f.resolver.calls)
}

func TestQuickAnalysisBoundsFailureIsNotCached(t *testing.T) {
	f := newQuickFixture(boundsCaps)
	f.bounds.err = errModelDown
	req := models.QuickAnalysisRequest{TokenA: "sol", TokenB: "jup"}

	_, _, err := f.uc.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrBoundsComputation)

	f.bounds.err = nil
	_, hit, err := f.uc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestQuickAnalysisModerateAndUnresolvedPrice(t *testing.T) {
	f := newQuickFixture(boundsCaps)
	f.bounds.scores[models.TokenPENGU] = 60
	body, _, err := f.uc.Analyze(context.Background(), models.QuickAnalysisRequest{TokenA: "pengu", TokenB: "jup"})
	require.NoError(t, err)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 50.0, float64(resp.Overall.SafetyScore))
	assert.Equal(t, models.RecommendModerate, resp.Overall.Recommendation)
	assert.Equal(t, models.SignalHold, resp.Overall.Signal)

	pengu, _ := f.bounds.input(models.TokenPENGU)
	assert.Equal(t, 0.0, pengu.Price)
	jup, _ := f.bounds.input(models.TokenJUP)
	assert.Equal(t, 0.8, jup.Price)
}

func TestQuickAnalysisNaNScoreRendersNull(t *testing.T) {
	f := newQuickFixture(boundsCaps)
	f.bounds.scores[models.TokenSOL] = math.NaN()
	body, _, err := f.uc.Analyze(context.Background(), models.QuickAnalysisRequest{TokenA: "sol", TokenB: "usdc"})
	require.NoError(t, err)

	var raw struct {
		TokenA  map[string]interface{} `json:"token_a"`
		Overall map[string]interface{} `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Nil(t, raw.Overall["safety_score"])
	assert.Equal(t, string(models.RecommendRisky), raw.Overall["recommendation"])
	assert.Nil(t, raw.TokenA["safety_score"])
}

func TestQuickAnalysisBoundsPoolIsBounded(t *testing.T) {
	f := newQuickFixture(boundsCaps, WithMaxConcurrentBounds(1))
	f.bounds.delay = 20 * time.Millisecond

	_, _, err := f.uc.Analyze(context.Background(), models.QuickAnalysisRequest{TokenA: "sol", TokenB: "jup"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.bounds.peak.Load())
}

func TestAnalysisCacheKey(t *testing.T) {
	assert.Equal(t, "analysis:quick:sol:usdc:150:-", AnalysisCacheKey(models.TokenSOL, models.TokenUSDC, ptr(150), nil))
	assert.Equal(t, "analysis:quick:usdc:sol:-:-", AnalysisCacheKey(models.TokenUSDC, models.TokenSOL, nil, nil))
}
