package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/domain/repository"
	"CedearScan/internal/indicators"
	"CedearScan/internal/rankcache"
	"CedearScan/internal/ranking"
	"CedearScan/internal/scoring"
	"CedearScan/internal/session"
	"CedearScan/internal/universe"
	xhttp "CedearScan/pkg/http"
	xlogger "CedearScan/pkg/logger"
)

// Screener orchestrates a full ranking run: fetch each asset's data,
// derive indicators, score under the requested strategy, rank, cache,
// record. One Screener instance serves all strategies.
type Screener struct {
	uni          *universe.Universe
	market       repository.MarketDataProvider
	fundamentals repository.FundamentalsProvider
	calc         *indicators.Calculator
	rules        scoring.Rules
	aggregator   *scoring.Aggregator
	engine       *ranking.Engine
	cache        *rankcache.Cache
	clock        session.Clock
	recorder     repository.RunRecorder
	publisher    repository.EventPublisher
	metrics      repository.Metrics
	logger       *xlogger.Logger

	workers int
	version string

	mu       sync.Mutex
	inflight map[models.Strategy]*call
	lastRuns map[models.Strategy]time.Time
}

// call tracks one in-flight computation so concurrent requests for the
// same strategy collapse onto a single run.
type call struct {
	done   chan struct{}
	result *models.RankedResult
	err    error
}

// Config carries the orchestration knobs.
type Config struct {
	Workers int
	Version string
}

func NewScreener(
	uni *universe.Universe,
	market repository.MarketDataProvider,
	fundamentals repository.FundamentalsProvider,
	calc *indicators.Calculator,
	rules scoring.Rules,
	aggregator *scoring.Aggregator,
	engine *ranking.Engine,
	cache *rankcache.Cache,
	clock session.Clock,
	recorder repository.RunRecorder,
	publisher repository.EventPublisher,
	metrics repository.Metrics,
	logger *xlogger.Logger,
	cfg Config,
) *Screener {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	return &Screener{
		uni:          uni,
		market:       market,
		fundamentals: fundamentals,
		calc:         calc,
		rules:        rules,
		aggregator:   aggregator,
		engine:       engine,
		cache:        cache,
		clock:        clock,
		recorder:     recorder,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		workers:      workers,
		version:      cfg.Version,
		inflight:     make(map[models.Strategy]*call),
		lastRuns:     make(map[models.Strategy]time.Time),
	}
}

// GetRanking serves a ranking for the requested strategy, from cache
// when fresh, recomputing otherwise. TopN truncation and breakdown
// stripping happen at serve time over the full cached list, so varying
// top_n never forces recomputation.
func (s *Screener) GetRanking(ctx context.Context, req *models.RankingRequest) (*models.RankedResult, error) {
	strategy := models.Strategy(req.Strategy)
	if !strategy.Valid() {
		return nil, xhttp.BadRequestErrorf("unknown strategy %q", req.Strategy)
	}

	full, err := s.fullRanking(ctx, strategy, req.ForceRefresh)
	if err != nil {
		return nil, err
	}
	return view(full, req.TopN, req.IncludeBreakdown), nil
}

// FullRanking returns the complete ranked universe for a strategy,
// breakdowns included. Used by the asset listing endpoint and the
// scheduler.
func (s *Screener) FullRanking(ctx context.Context, strategy models.Strategy, force bool) (*models.RankedResult, error) {
	return s.fullRanking(ctx, strategy, force)
}

func (s *Screener) fullRanking(ctx context.Context, strategy models.Strategy, force bool) (*models.RankedResult, error) {
	if !force {
		cached, state := s.cache.Get(ctx, strategy)
		switch state {
		case rankcache.StateFresh:
			s.metrics.RecordCacheEvent(string(strategy), "hit")
			return cached, nil
		case rankcache.StateStale:
			s.metrics.RecordCacheEvent(string(strategy), "stale")
			result, err := s.computeShared(ctx, strategy)
			if err != nil {
				// A stale ranking beats an error page while the provider
				// is down.
				s.logger.Warn("recompute failed, serving stale ranking",
					xlogger.Error(err), xlogger.String("strategy", string(strategy)))
				return cached, nil
			}
			return result, nil
		default:
			s.metrics.RecordCacheEvent(string(strategy), "miss")
		}
	} else {
		s.metrics.RecordCacheEvent(string(strategy), "force_refresh")
	}
	return s.computeShared(ctx, strategy)
}

// computeShared collapses concurrent computations of the same strategy
// onto one run; late arrivals wait for the winner's result.
func (s *Screener) computeShared(ctx context.Context, strategy models.Strategy) (*models.RankedResult, error) {
	s.mu.Lock()
	if c, ok := s.inflight[strategy]; ok {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.result, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight[strategy] = c
	s.mu.Unlock()

	c.result, c.err = s.compute(ctx, strategy)
	close(c.done)

	s.mu.Lock()
	delete(s.inflight, strategy)
	s.mu.Unlock()

	return c.result, c.err
}

func (s *Screener) compute(ctx context.Context, strategy models.Strategy) (*models.RankedResult, error) {
	start := s.clock.Now()

	var result *models.RankedResult
	var err error
	if strategy == models.StrategyGlobal {
		result, err = s.computeGlobal(ctx)
	} else {
		result, err = s.computeStrategy(ctx, strategy)
	}
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.RecordComputeDuration(string(strategy), elapsed.Seconds())
	if len(result.Entries) > 0 {
		s.metrics.RecordTopScore(string(strategy), float64(result.Entries[0].Score))
	}

	if err := s.cache.Put(ctx, result); err != nil {
		s.logger.Warn("cache write failed",
			xlogger.Error(err), xlogger.String("strategy", string(strategy)))
	}
	s.markRun(strategy, s.clock.Now())

	// Best effort; neither analytics nor events gate the response.
	// Failures are logged by the implementations.
	_ = s.recorder.RecordRun(ctx, result, elapsed)
	_ = s.publisher.PublishRunCompleted(ctx, result)

	s.logger.Info("ranking computed",
		xlogger.String("strategy", string(strategy)),
		xlogger.Int("assets", result.Total),
		xlogger.Int("skipped", result.Skipped),
		xlogger.Duration("elapsed_ms", elapsed))
	return result, nil
}

// scoredUniverse runs the fetch/compute/score pipeline over every
// applicable ticker with a bounded worker pool. Per-asset failures are
// counted as skips; only a run where every asset failed is an error.
func (s *Screener) scoredUniverse(ctx context.Context, strategy models.Strategy) ([]models.ScoredAsset, int, error) {
	tickers := s.uni.TickersFor(strategy)
	if len(tickers) == 0 {
		return nil, 0, xhttp.NewAppError("ERR_EMPTY_UNIVERSE", "",
			"no assets configured for strategy "+string(strategy), 503)
	}

	scorer := scoring.ForStrategy(strategy, s.rules)
	needsFundamentals := strategy == models.StrategyValue || strategy == models.StrategyDefensive

	type outcome struct {
		asset *models.ScoredAsset
		err   error
	}
	outcomes := make([]outcome, len(tickers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			in, err := s.assetInput(ctx, ticker, needsFundamentals)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return
			}
			outcomes[i] = outcome{asset: scorer.Score(*in)}
		}(i, ticker)
	}
	wg.Wait()

	scored := make([]models.ScoredAsset, 0, len(tickers))
	skipped := 0
	unavailable := 0
	for i, o := range outcomes {
		if o.err != nil {
			skipped++
			if !errors.Is(o.err, repository.ErrInsufficientData) {
				unavailable++
			}
			s.metrics.RecordAssetSkipped(string(strategy), skipReason(o.err))
			s.logger.Warn("asset skipped",
				xlogger.Error(o.err),
				xlogger.String("strategy", string(strategy)),
				xlogger.String("ticker", tickers[i]))
			continue
		}
		scored = append(scored, *o.asset)
	}

	// Every asset unreachable means the provider is down: that is a
	// request-level failure. All assets merely lacking history is an
	// empty (but valid) ranking.
	if len(scored) == 0 && unavailable == len(tickers) {
		return nil, skipped, xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "",
			"market data unavailable for the whole universe", 503).
			WithParam("strategy", string(strategy))
	}
	return scored, skipped, nil
}

// assetInput fetches and derives everything one scorer needs for one
// ticker.
func (s *Screener) assetInput(ctx context.Context, ticker string, needsFundamentals bool) (*scoring.Input, error) {
	series, err := s.market.FetchSeries(ctx, ticker, s.calc.LookbackSessions())
	if err != nil {
		s.metrics.RecordProviderFetch("chart", "error")
		return nil, err
	}
	s.metrics.RecordProviderFetch("chart", "ok")

	set, err := s.calc.Compute(series)
	if err != nil {
		return nil, err
	}

	in := &scoring.Input{
		Ticker:     ticker,
		Company:    s.uni.Company(ticker),
		Indicators: set,
	}
	if needsFundamentals {
		snap, err := s.fundamentals.FetchFundamentals(ctx, ticker)
		if err != nil {
			// Fundamentals gone missing degrades those criteria to zero
			// points; the asset stays in the run.
			s.metrics.RecordProviderFetch("fundamentals", "error")
			snap = &models.FundamentalsSnapshot{Ticker: ticker}
		} else {
			s.metrics.RecordProviderFetch("fundamentals", "ok")
		}
		in.Fundamentals = snap
	}
	return in, nil
}

func (s *Screener) computeStrategy(ctx context.Context, strategy models.Strategy) (*models.RankedResult, error) {
	scored, skipped, err := s.scoredUniverse(ctx, strategy)
	if err != nil {
		return nil, err
	}
	// Rank the whole universe; serving truncates later.
	return s.engine.Rank(strategy, scored, skipped, s.clock.Now(), len(scored)), nil
}

// computeGlobal derives the composite ranking from the three concrete
// strategies' Top-N sets. Sub-strategy results are computed (and cached)
// through the same path as direct requests.
func (s *Screener) computeGlobal(ctx context.Context) (*models.RankedResult, error) {
	topSets := make(map[models.Strategy][]models.ScoredAsset, len(models.Strategies))
	maxSkipped := 0
	for _, sub := range models.Strategies {
		full, err := s.fullRanking(ctx, sub, false)
		if err != nil {
			return nil, fmt.Errorf("global: %s: %w", sub, err)
		}
		n := s.engine.TopN()
		if n > len(full.Entries) {
			n = len(full.Entries)
		}
		topSets[sub] = full.Entries[:n]
		if full.Skipped > maxSkipped {
			maxSkipped = full.Skipped
		}
	}

	entries := s.aggregator.Aggregate(topSets)
	return s.engine.RankGlobal(entries, maxSkipped, s.clock.Now(), len(entries)), nil
}

// AnalyzeAsset scores a single universe ticker under every concrete
// strategy. Unknown tickers are a 404; a provider failure for a known
// ticker is a 503.
func (s *Screener) AnalyzeAsset(ctx context.Context, ticker string) (*models.AssetAnalysis, error) {
	if !s.uni.Contains(ticker) {
		return nil, xhttp.NotFoundErrorf("ticker %s is not in the screener universe", ticker)
	}

	in, err := s.assetInput(ctx, ticker, true)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientData) {
			return nil, xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "",
				"not enough price history for "+ticker, 503).WithError(err)
		}
		return nil, xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "",
			"market data unavailable for "+ticker, 503).WithError(err)
	}

	analysis := &models.AssetAnalysis{
		Ticker:     ticker,
		Company:    s.uni.Company(ticker),
		Date:       s.clock.Now().Format("2006-01-02"),
		Indicators: in.Indicators,
		Disclaimer: models.Disclaimer,
		Scores:     make(map[string]*models.ScoredAsset, len(models.Strategies)),
	}
	for _, strategy := range models.Strategies {
		analysis.Scores[string(strategy)] = scoring.ForStrategy(strategy, s.rules).Score(*in)
	}
	return analysis, nil
}

// Universe exposes the configured asset set.
func (s *Screener) Universe() []universe.Asset { return s.uni.Assets() }

// Health reports service status and the last successful run times.
func (s *Screener) Health() *models.HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := make(map[string]string, len(s.lastRuns))
	for _, strategy := range append(append([]models.Strategy{}, models.Strategies...), models.StrategyGlobal) {
		if t, ok := s.lastRuns[strategy]; ok {
			runs[string(strategy)] = t.UTC().Format(time.RFC3339)
		} else {
			runs[string(strategy)] = ""
		}
	}
	return &models.HealthStatus{
		Status:   "ok",
		Version:  s.version,
		LastRuns: runs,
	}
}

func (s *Screener) markRun(strategy models.Strategy, t time.Time) {
	s.mu.Lock()
	s.lastRuns[strategy] = t
	s.mu.Unlock()
}

// view shapes the full cached ranking for one response. The underlying
// entries are copied before mutation so cached data stays intact.
func view(full *models.RankedResult, topN int, includeBreakdown bool) *models.RankedResult {
	n := topN
	if n <= 0 || n > len(full.Entries) {
		n = len(full.Entries)
	}
	entries := make([]models.ScoredAsset, n)
	copy(entries, full.Entries[:n])
	if !includeBreakdown {
		for i := range entries {
			entries[i].Breakdown = nil
		}
	}
	out := *full
	out.Entries = entries
	return &out
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "data_unavailable"
	}
}
