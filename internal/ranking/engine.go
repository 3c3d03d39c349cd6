package ranking

import (
	"sort"
	"time"

	"CedearScan/internal/domain/models"
)

// Engine orders scored assets into a RankedResult. Sorting is a total
// order: score descending, ticker ascending on ties, so repeated runs
// over identical inputs produce identical output.
type Engine struct {
	topN int
}

// New creates an Engine truncating to topN entries. The universe may be
// larger than topN.
func New(topN int) *Engine {
	return &Engine{topN: topN}
}

// TopN returns the configured truncation size.
func (e *Engine) TopN() int { return e.topN }

// Rank sorts and truncates scored assets for one strategy. Assets that
// failed indicator computation must not be passed in: exclusion and a
// zero score are different things, and the skipped count records the
// former. limit <= 0 falls back to the engine default.
func (e *Engine) Rank(strategy models.Strategy, assets []models.ScoredAsset, skipped int, now time.Time, limit int) *models.RankedResult {
	sorted := make([]models.ScoredAsset, len(assets))
	copy(sorted, assets)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Ticker < sorted[j].Ticker
	})

	n := limit
	if n <= 0 {
		n = e.topN
	}
	if n > len(sorted) {
		n = len(sorted)
	}

	return &models.RankedResult{
		Date:       now.Format("2006-01-02"),
		Strategy:   strategy,
		Disclaimer: models.Disclaimer,
		Total:      len(sorted),
		Entries:    sorted[:n],
		Skipped:    skipped,
	}
}

// RankGlobal wraps pre-ordered global entries; the aggregator already
// applies the membership/average/ticker order, so the engine only
// truncates and stamps the result.
func (e *Engine) RankGlobal(entries []models.ScoredAsset, skipped int, now time.Time, limit int) *models.RankedResult {
	n := limit
	if n <= 0 {
		n = e.topN
	}
	if n > len(entries) {
		n = len(entries)
	}
	return &models.RankedResult{
		Date:       now.Format("2006-01-02"),
		Strategy:   models.StrategyGlobal,
		Disclaimer: models.Disclaimer,
		Total:      len(entries),
		Entries:    entries[:n],
		Skipped:    skipped,
	}
}
