package di

import (
	"context"
	"fmt"
	"time"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	"YieldSense/internal/handler/api"
	respcache "YieldSense/internal/service/cache"
	"YieldSense/internal/service/canary"
	"YieldSense/internal/service/credentials"
	"YieldSense/internal/service/cryptopanic"
	"YieldSense/internal/service/dexscreener"
	"YieldSense/internal/service/privacy"
	"YieldSense/internal/service/sentiment"
	"YieldSense/internal/service/staking"
	"YieldSense/internal/service/ticker"
	"YieldSense/internal/services/modelsvc"
	"YieldSense/internal/usecase"
	pcache "YieldSense/pkg/cache"
	"YieldSense/pkg/config"
	xhttp "YieldSense/pkg/http"
	pkgkafka "YieldSense/pkg/kafka"
	applogger "YieldSense/pkg/logger"
	"YieldSense/pkg/metrics"
	"YieldSense/pkg/server"
)

// ProvideLogger creates the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "yieldsense",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheBackend connects the configured backend. An unreachable Redis
// degrades to the in-memory cache instead of failing startup. The "none"
// backend still returns a memory cache because the probe counter needs one.
func ProvideCacheBackend(cfg *config.Config, l *applogger.Logger) (pcache.Service, func(), error) {
	memory := func() (pcache.Service, func(), error) {
		mc := pcache.NewMemoryCache(pcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
		return mc, func() { _ = mc.Close() }, nil
	}

	if cfg.Cache.Backend != "redis" && cfg.Cache.Backend != "layered" {
		return memory()
	}

	rc, err := pcache.NewRedisCache(
		pcache.WithRedisHost(cfg.Redis.Host),
		pcache.WithRedisPort(cfg.Redis.Port),
		pcache.WithRedisPassword(cfg.Redis.Password),
		pcache.WithRedisDB(cfg.Redis.DB),
		pcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		l.Warn("di.cache redis unavailable, using memory", applogger.Error(err))
		return memory()
	}

	if cfg.Cache.Backend == "layered" {
		lc := pcache.NewLayeredCache(rc,
			pcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			pcache.WithLayeredMaxL1TTL(cfg.Cache.AnalysisTTL),
		)
		return lc, func() { _ = lc.Close() }, nil
	}
	return rc, func() { _ = rc.Close() }, nil
}

func ProvideResponseCache(cfg *config.Config, backend pcache.Service, m domrepo.Metrics, l *applogger.Logger) domrepo.ResponseCache {
	if cfg.Cache.Backend == "none" {
		backend = nil
	}
	return respcache.NewResponseCache(backend, m, l.With(applogger.String("component", "cache")))
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID("yieldsense"),
		pkgkafka.WithBatching(50, cfg.Kafka.Linger),
		pkgkafka.WithAsync(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideAlertSink publishes probe alerts to Kafka, or drops them when
// Kafka is disabled.
func ProvideAlertSink(cfg *config.Config, producer *pkgkafka.Producer) canary.AlertSink {
	if producer == nil {
		return nil
	}
	return canary.NewPublisherSink(producer, cfg.Kafka.AlertsTopic)
}

func ProvideAbuseDetector(cfg *config.Config, backend pcache.Service, sink canary.AlertSink, m domrepo.Metrics, l *applogger.Logger) domsvc.AbuseDetector {
	return canary.New(backend,
		canary.WithWindow(cfg.Canary.Window),
		canary.WithThreshold(cfg.Canary.Threshold),
		canary.WithSink(sink),
		canary.WithMetrics(m),
		canary.WithLogger(l.With(applogger.String("component", "canary"))),
	)
}

func ProvideRotator(cfg *config.Config, l *applogger.Logger) *credentials.Rotator {
	r := credentials.NewRotator(cfg.CryptoPanic.APIKeys, credentials.WithOnAdvance(func(from, to int) {
		l.Debug("credentials.advance", applogger.Int("from", from), applogger.Int("to", to))
	}))
	if r.Size() == 0 {
		l.Warn("di.rotator no news credentials configured, news will be empty")
	}
	return r
}

func ProvidePriceResolver(cfg *config.Config, m domrepo.Metrics, l *applogger.Logger) domsvc.PriceResolver {
	return dexscreener.New(
		dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
		dexscreener.WithChainID(cfg.DexScreener.ChainID),
		dexscreener.WithTopPairs(cfg.DexScreener.TopPairs),
		dexscreener.WithTimeout(cfg.DexScreener.Timeout),
		dexscreener.WithRatePerMinute(cfg.DexScreener.RatePerMinute),
		dexscreener.WithMetrics(m),
		dexscreener.WithLogger(l.With(applogger.String("component", "dexscreener"))),
	)
}

func ProvideNewsFetcher(cfg *config.Config, r *credentials.Rotator, m domrepo.Metrics, l *applogger.Logger) domsvc.NewsFetcher {
	return cryptopanic.New(r,
		cryptopanic.WithBaseURL(cfg.CryptoPanic.BaseURL),
		cryptopanic.WithTimeout(cfg.CryptoPanic.Timeout),
		cryptopanic.WithMaxHeadlines(cfg.CryptoPanic.MaxHeadlines),
		cryptopanic.WithMetrics(m),
		cryptopanic.WithLogger(l.With(applogger.String("component", "cryptopanic"))),
	)
}

func ProvideModelService(cfg *config.Config, m domrepo.Metrics) *modelsvc.HTTPServiceBase {
	return modelsvc.NewHTTPServiceBase(cfg, modelsvc.WithMetrics(m))
}

// ProvideCapabilities reads what the model service has loaded, once. A
// service that is down at startup leaves every capability off.
func ProvideCapabilities(base *modelsvc.HTTPServiceBase, l *applogger.Logger) models.Capabilities {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	caps, err := modelsvc.Probe(ctx, base)
	if err != nil {
		l.Warn("di.capabilities model service unavailable", applogger.Error(err))
		return caps
	}
	l.Info("di.capabilities loaded",
		applogger.Strings("volatility", caps.LoadedTokens()),
		applogger.Bool("sentiment", caps.Sentiment),
		applogger.Bool("tokenizer", caps.Tokenizer),
		applogger.Bool("bounds", caps.Bounds),
	)
	return caps
}

func ProvideBoundsCalculator(base *modelsvc.HTTPServiceBase) domsvc.BoundsCalculator {
	return modelsvc.NewHTTPBoundsCalculator(base)
}

func ProvideSentimentScorer(cfg *config.Config, base *modelsvc.HTTPServiceBase, caps models.Capabilities, l *applogger.Logger) domsvc.SentimentScorer {
	return sentiment.New(
		modelsvc.NewHTTPTokenizer(base),
		modelsvc.NewHTTPInferencer(base),
		caps,
		sentiment.WithMaxLength(cfg.Models.TokenMaxLength),
		sentiment.WithLogger(l.With(applogger.String("component", "sentiment"))),
	)
}

func ProvideNoiseFilter(cfg *config.Config) domsvc.NoiseFilter {
	return privacy.New(cfg.Privacy.NoiseScale)
}

func ProvideStakingSource(cfg *config.Config, m domrepo.Metrics) domsvc.StakingSource {
	return staking.New(cfg.Staking.ServiceURL,
		staking.WithTimeout(cfg.Staking.Timeout),
		staking.WithMetrics(m),
	)
}

func ProvideQuickAnalysis(
	cfg *config.Config,
	prices domsvc.PriceResolver,
	news domsvc.NewsFetcher,
	bounds domsvc.BoundsCalculator,
	noise domsvc.NoiseFilter,
	detector domsvc.AbuseDetector,
	cache domrepo.ResponseCache,
	caps models.Capabilities,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.QuickAnalysisUseCase {
	return usecase.NewQuickAnalysisUseCase(usecase.QuickAnalysisDeps{
		Prices:  prices,
		News:    news,
		Bounds:  bounds,
		Noise:   noise,
		Canary:  detector,
		Cache:   cache,
		Caps:    caps,
		Metrics: m,
		Logger:  l,
	},
		usecase.WithRequestTimeout(cfg.Analysis.RequestTimeout),
		usecase.WithMaxConcurrentBounds(cfg.Models.MaxConcurrent),
		usecase.WithAnalysisTTL(cfg.Cache.AnalysisTTL),
	)
}

func ProvideTokenNews(cfg *config.Config, news domsvc.NewsFetcher, scorer domsvc.SentimentScorer, cache domrepo.ResponseCache, l *applogger.Logger) *usecase.TokenNewsUseCase {
	return usecase.NewTokenNewsUseCase(news, scorer, cache, cfg.Cache.NewsTTL, l)
}

// ProvideTicker returns nil when the price ticker is disabled.
func ProvideTicker(cfg *config.Config, prices domsvc.PriceResolver, m domrepo.Metrics, l *applogger.Logger) *ticker.Hub {
	if !cfg.Ticker.Enabled {
		return nil
	}
	return ticker.New(prices,
		ticker.WithInterval(cfg.Ticker.Interval),
		ticker.WithMetrics(m),
		ticker.WithLogger(l.With(applogger.String("component", "ticker"))),
	)
}

func ProvideHandler(
	quick *usecase.QuickAnalysisUseCase,
	news *usecase.TokenNewsUseCase,
	stakingSrc domsvc.StakingSource,
	cache domrepo.ResponseCache,
	caps models.Capabilities,
	hub *ticker.Hub,
	l *applogger.Logger,
) *api.Handler {
	return api.NewHandler(api.Deps{
		Quick:   quick,
		News:    news,
		Staking: stakingSrc,
		Cache:   cache,
		Caps:    caps,
		Hub:     hub,
		Logger:  l.With(applogger.String("component", "api")),
	})
}

func ProvideHTTPServer(cfg *config.Config, h *api.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, hub *ticker.Hub, producer *pkgkafka.Producer) *server.App {
	return server.New(cfg, l, srv, hub, producer)
}
