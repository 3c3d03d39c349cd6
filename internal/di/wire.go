//go:build wireinject
// +build wireinject

package di

import (
	"CedearScan/pkg/config"
	"CedearScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Sinks
		ProvideRunRecorder,
		ProvideEventPublisher,

		// Domain components
		ProvideUniverse,
		ProvideMarketProvider,
		ProvideCalendar,
		ProvideClock,
		ProvideRankCache,

		// Use cases
		ProvideScreener,

		// HTTP and scheduling
		ProvideHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
