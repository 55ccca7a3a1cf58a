package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	pcache "YieldSense/pkg/cache"
	applogger "YieldSense/pkg/logger"
)

const newsCachePrefix = "news"

// TokenNewsUseCase serves headlines for one token together with their sentiment.
type TokenNewsUseCase struct {
	news      domsvc.NewsFetcher
	sentiment domsvc.SentimentScorer
	cache     domrepo.ResponseCache
	ttl       time.Duration
	l         *applogger.Logger
}

func NewTokenNewsUseCase(news domsvc.NewsFetcher, sentiment domsvc.SentimentScorer, cache domrepo.ResponseCache, ttl time.Duration, l *applogger.Logger) *TokenNewsUseCase {
	if ttl <= 0 {
		ttl = 120 * time.Second
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &TokenNewsUseCase{news: news, sentiment: sentiment, cache: cache, ttl: ttl, l: l}
}

func NewsCacheKey(t models.TokenSymbol) string {
	return pcache.GenerateKey(newsCachePrefix, t.String())
}

// Get returns the serialized NewsResponse and whether it came from cache.
// A token without headlines is a successful response with news_available=false.
func (uc *TokenNewsUseCase) Get(ctx context.Context, raw string) ([]byte, bool, error) {
	token, err := models.ParseToken(raw)
	if err != nil {
		return nil, false, err
	}

	key := NewsCacheKey(token)
	if b, ok := uc.cache.Get(ctx, key); ok {
		return b, true, nil
	}

	resp := models.NewsResponse{
		Success:   true,
		Token:     token.Upper(),
		Sentiment: models.NewNewsSentiment(models.NeutralSentiment()),
	}

	headlines := uc.news.Fetch(ctx, token)
	if len(headlines) > 0 {
		resp.NewsAvailable = true
		resp.Sentiment = models.NewNewsSentiment(uc.sentiment.Score(ctx, models.Texts(headlines)))
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, false, fmt.Errorf("encode news: %w", err)
	}

	// An empty result is usually a rotation exhaustion; keep it out of the cache
	// so the next request tries again.
	if resp.NewsAvailable {
		uc.cache.Set(ctx, key, body, uc.ttl)
	}
	uc.l.Debug("usecase.token_news done",
		applogger.String("token", token.String()),
		applogger.Int("headlines", len(headlines)),
	)
	return body, false, nil
}
