package recorder

import (
	"context"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/pkg/clickhouse"
	xlogger "CedearScan/pkg/logger"
)

// Schema statements applied at startup. Idempotent; safe to re-run.
var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS ranking_runs (
		run_date     Date,
		strategy     LowCardinality(String),
		computed_at  DateTime,
		total_assets UInt16,
		skipped      UInt16,
		top_ticker   String,
		top_score    UInt8,
		elapsed_ms   UInt32
	) ENGINE = MergeTree()
	ORDER BY (run_date, strategy, computed_at)`,
}

// ClickHouse persists one summary row per completed ranking run. It is
// strictly best effort: a recording failure is logged and swallowed so
// analytics outages never fail a ranking request.
type ClickHouse struct {
	client *clickhouse.Client
	logger *xlogger.Logger
}

func NewClickHouse(ctx context.Context, client *clickhouse.Client, logger *xlogger.Logger) (*ClickHouse, error) {
	if err := client.InitSchema(ctx, schemaStmts); err != nil {
		return nil, err
	}
	return &ClickHouse{client: client, logger: logger}, nil
}

func (r *ClickHouse) RecordRun(ctx context.Context, result *models.RankedResult, elapsed time.Duration) error {
	topTicker := ""
	topScore := 0
	if len(result.Entries) > 0 {
		topTicker = result.Entries[0].Ticker
		topScore = result.Entries[0].Score
	}

	_, err := r.client.DB().ExecContext(ctx,
		`INSERT INTO ranking_runs
			(run_date, strategy, computed_at, total_assets, skipped, top_ticker, top_score, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Date, string(result.Strategy), time.Now().UTC(),
		uint16(result.Total), uint16(result.Skipped),
		topTicker, uint8(topScore), uint32(elapsed.Milliseconds()),
	)
	if err != nil {
		r.logger.Warn("run history insert failed",
			xlogger.Error(err), xlogger.String("strategy", string(result.Strategy)))
		return err
	}
	return nil
}

// Noop satisfies RunRecorder when ClickHouse is not configured.
type Noop struct{}

func (Noop) RecordRun(context.Context, *models.RankedResult, time.Duration) error { return nil }
