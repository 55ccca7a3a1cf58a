//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"YieldSense/pkg/config"
	"YieldSense/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheBackend,
		ProvideResponseCache,
		ProvideKafkaProducer,
		ProvideModelService,
		ProvideCapabilities,

		// Domain services
		ProvideRotator,
		ProvidePriceResolver,
		ProvideNewsFetcher,
		ProvideBoundsCalculator,
		ProvideSentimentScorer,
		ProvideNoiseFilter,
		ProvideAlertSink,
		ProvideAbuseDetector,
		ProvideStakingSource,

		// Use cases
		ProvideQuickAnalysis,
		ProvideTokenNews,

		// Transport
		ProvideTicker,
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
