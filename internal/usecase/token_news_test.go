package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YieldSense/internal/domain/models"
)

func TestTokenNewsWithoutHeadlines(t *testing.T) {
	news := &fakeNews{}
	uc := NewTokenNewsUseCase(news, fakeScorer{}, newMemoryResponseCache(), time.Minute, nil)

	body, hit, err := uc.Get(context.Background(), "PENGU")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.JSONEq(t, `{"success":true,"token":"PENGU","news_available":false,
		"sentiment":{"net_sentiment":0,"confidence":0,"trend":"neutral","headlines":[]}}`, string(body))

	// empty results are retried rather than served from cache
	_, hit, err = uc.Get(context.Background(), "pengu")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(2), news.calls.Load())
}

func TestTokenNewsScoresAndCaches(t *testing.T) {
	news := &fakeNews{byToken: map[models.TokenSymbol][]string{models.TokenSOL: {"up only"}}}
	scorer := fakeScorer{result: models.SentimentResult{
		NetSentiment: 0.5,
		Confidence:   0.8,
		Trend:        models.TrendBullish,
		Headlines:    []models.ScoredHeadline{{Headline: "up only", Score: 0.5}},
	}}
	uc := NewTokenNewsUseCase(news, scorer, newMemoryResponseCache(), time.Minute, nil)

	first, _, err := uc.Get(context.Background(), "sol")
	require.NoError(t, err)

	var resp models.NewsResponse
	require.NoError(t, json.Unmarshal(first, &resp))
	assert.True(t, resp.NewsAvailable)
	assert.Equal(t, "SOL", resp.Token)
	assert.Equal(t, models.TrendBullish, resp.Sentiment.Trend)
	assert.Equal(t, 0.8, float64(resp.Sentiment.Confidence))

	second, hit, err := uc.Get(context.Background(), "sol")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), news.calls.Load())
}

func TestTokenNewsUnsupported(t *testing.T) {
	news := &fakeNews{}
	uc := NewTokenNewsUseCase(news, fakeScorer{}, newMemoryResponseCache(), time.Minute, nil)

	_, _, err := uc.Get(context.Background(), "doge")
	assert.ErrorIs(t, err, models.ErrUnsupportedToken)
	assert.Zero(t, news.calls.Load())
}
