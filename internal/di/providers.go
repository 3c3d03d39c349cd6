package di

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CedearScan/internal/domain/repository"
	"CedearScan/internal/events"
	"CedearScan/internal/handler/api"
	"CedearScan/internal/indicators"
	"CedearScan/internal/provider"
	"CedearScan/internal/rankcache"
	"CedearScan/internal/ranking"
	"CedearScan/internal/recorder"
	"CedearScan/internal/scheduler"
	"CedearScan/internal/scoring"
	"CedearScan/internal/service/ratelimit"
	"CedearScan/internal/session"
	"CedearScan/internal/universe"
	"CedearScan/internal/usecase"
	pkgcache "CedearScan/pkg/cache"
	pkgch "CedearScan/pkg/clickhouse"
	"CedearScan/pkg/config"
	xhttp "CedearScan/pkg/http"
	pkgkafka "CedearScan/pkg/kafka"
	xlogger "CedearScan/pkg/logger"
	"CedearScan/pkg/metrics"
	"CedearScan/pkg/server"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	return xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideCacheService creates the shared cache backend: in-process
// memory, Redis, or layered (memory in front of Redis).
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Type {
	case "redis":
		return newRedisCache(cfg)
	case "layered":
		redisCache, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return pkgcache.NewLayeredCache(redisCache), nil
	default:
		return pkgcache.NewMemoryCache(), nil
	}
}

func newRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	host, port := splitAddr(cfg.Cache.Redis.Addr)
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return redisCache, nil
}

func splitAddr(addr string) (string, int) {
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideClickHouseClient creates a ClickHouse client, nil when run
// history is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideRunRecorder wires the run-history sink, no-op when disabled.
func ProvideRunRecorder(chClient *pkgch.Client, logger *xlogger.Logger) (repository.RunRecorder, error) {
	if chClient == nil {
		return recorder.Noop{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec, err := recorder.NewClickHouse(ctx, chClient, logger)
	if err != nil {
		return nil, fmt.Errorf("run recorder: %w", err)
	}
	return rec, nil
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher wires the run-event sink, no-op when disabled.
// With Kafka available, repeated error logs are also aggregated and
// shipped on a sibling topic.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config, logger *xlogger.Logger) repository.EventPublisher {
	if producer == nil {
		return events.NoopPublisher{}
	}
	logger.AddCollector(&xlogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".logs",
		Publisher:      events.NewLogSink(producer),
	})
	return events.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideUniverse loads the asset universe.
func ProvideUniverse(cfg *config.Config) (*universe.Universe, error) {
	if cfg.Screener.UniverseFile == "" {
		return universe.Default(), nil
	}
	return universe.LoadFile(cfg.Screener.UniverseFile)
}

// ProvideMarketProvider creates the Yahoo Finance data provider.
func ProvideMarketProvider(cfg *config.Config, logger *xlogger.Logger) *provider.Yahoo {
	opts := []provider.Option{
		provider.WithPerTickerTimeout(cfg.Provider.PerTickerTimeout),
		provider.WithRate(cfg.Provider.RateBurst, cfg.Provider.RateRefillPerSec),
	}
	if cfg.Provider.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.Provider.BaseURL))
	}
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.PerTickerTimeout + 5*time.Second))
	return provider.NewYahoo(client, ratelimit.New(), logger, opts...)
}

// ProvideCalendar builds the exchange session calendar.
func ProvideCalendar(cfg *config.Config) *session.Calendar {
	return session.NewCalendar(
		cfg.Session.Timezone,
		cfg.Session.OpenHour, cfg.Session.OpenMinute,
		cfg.Session.CloseHour, cfg.Session.CloseMinute,
	)
}

// ProvideClock supplies wall-clock time.
func ProvideClock() session.Clock {
	return session.SystemClock{}
}

// ProvideRankCache builds the session-aware ranking cache.
func ProvideRankCache(store pkgcache.Service, calendar *session.Calendar, clock session.Clock, cfg *config.Config) *rankcache.Cache {
	return rankcache.New(store, calendar, clock, cfg.Screener.CacheTTL)
}

// ProvideScreener assembles the ranking orchestrator.
func ProvideScreener(
	uni *universe.Universe,
	market *provider.Yahoo,
	cache *rankcache.Cache,
	clock session.Clock,
	rec repository.RunRecorder,
	pub repository.EventPublisher,
	m repository.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.Screener {
	return usecase.NewScreener(
		uni,
		market,
		market,
		indicators.New(indicators.DefaultParams()),
		scoring.DefaultRules(),
		scoring.NewAggregator(),
		ranking.New(cfg.Screener.TopN),
		cache,
		clock,
		rec,
		pub,
		m,
		logger,
		usecase.Config{Workers: cfg.Screener.Workers, Version: Version},
	)
}

// ProvideHandler creates the Echo route handler.
func ProvideHandler(logger *xlogger.Logger, screener *usecase.Screener) xhttp.Handler {
	return api.NewScreenerEchoHandler(logger, screener)
}

// ProvideScheduler creates the background refresh scheduler.
func ProvideScheduler(screener *usecase.Screener, calendar *session.Calendar, clock session.Clock, logger *xlogger.Logger) *scheduler.Scheduler {
	return scheduler.New(screener, calendar, clock, logger)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler xhttp.Handler,
	sched *scheduler.Scheduler,
	chClient *pkgch.Client,
	pub repository.EventPublisher,
) *server.App {
	return server.New(cfg, logger, handler, sched, chClient, pub)
}
