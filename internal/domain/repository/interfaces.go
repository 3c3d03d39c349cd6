package repository

import (
	"context"
	"errors"
	"time"

	"CedearScan/internal/domain/models"
)

var (
	// ErrInsufficientData marks an asset whose series is too short for
	// the indicator windows. Per-asset and recoverable: the asset is
	// skipped, the run continues.
	ErrInsufficientData = errors.New("insufficient price history")

	// ErrDataUnavailable marks a per-ticker provider failure (missing
	// data, timeout). Same exclusion policy as ErrInsufficientData.
	ErrDataUnavailable = errors.New("market data unavailable")
)

// MarketDataProvider fetches historical daily bars for one ticker.
type MarketDataProvider interface {
	FetchSeries(ctx context.Context, ticker string, lookbackSessions int) (*models.PriceSeries, error)
}

// FundamentalsProvider fetches valuation/quality metrics for one ticker.
type FundamentalsProvider interface {
	FetchFundamentals(ctx context.Context, ticker string) (*models.FundamentalsSnapshot, error)
}

// RunRecorder persists a summary of each successful ranking run.
// Implementations are best effort; recording failures never fail a run.
type RunRecorder interface {
	RecordRun(ctx context.Context, result *models.RankedResult, elapsed time.Duration) error
}

// EventPublisher emits a compact event when a ranking run completes.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, result *models.RankedResult) error
	Close() error
}

// Metrics abstracts operational metrics recording.
type Metrics interface {
	RecordProviderFetch(kind, outcome string)
	RecordAssetSkipped(strategy, reason string)
	RecordCacheEvent(strategy, event string)
	RecordComputeDuration(strategy string, seconds float64)
	RecordTopScore(strategy string, score float64)
}
