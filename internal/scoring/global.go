package scoring

import (
	"fmt"
	"math"
	"sort"

	"CedearScan/internal/domain/models"
)

// Aggregator builds the global (cross-strategy agreement) ranking from
// the per-strategy Top-N sets. Its output has its own explicit shape:
// how many strategy Top-N sets include the asset, and the average score
// across those strategies. Assets absent from every set are excluded;
// global surfaces agreement, not universe-wide presence.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// strategy display order, fixed for reproducible breakdowns.
var aggregationOrder = []models.Strategy{
	models.StrategyMomentum,
	models.StrategyValue,
	models.StrategyDefensive,
}

// Aggregate combines the per-strategy Top-N entries. Result order is
// total and deterministic: membership count desc, average score desc,
// ticker asc.
func (a *Aggregator) Aggregate(topSets map[models.Strategy][]models.ScoredAsset) []models.ScoredAsset {
	type membership struct {
		entries map[models.Strategy]models.ScoredAsset
	}
	byTicker := make(map[string]*membership)

	for _, s := range aggregationOrder {
		for _, e := range topSets[s] {
			m, ok := byTicker[e.Ticker]
			if !ok {
				m = &membership{entries: make(map[models.Strategy]models.ScoredAsset, 3)}
				byTicker[e.Ticker] = m
			}
			m.entries[s] = e
		}
	}

	out := make([]models.ScoredAsset, 0, len(byTicker))
	for ticker, m := range byTicker {
		count := len(m.entries)
		if count == 0 {
			continue
		}

		sum := 0
		memberOf := make([]string, 0, count)
		breakdown := make(models.ScoreBreakdown, 0, count)
		var base models.ScoredAsset
		haveBase := false

		for _, s := range aggregationOrder {
			e, ok := m.entries[s]
			if !ok {
				continue
			}
			sum += e.Score
			memberOf = append(memberOf, string(s))
			breakdown = append(breakdown, models.BreakdownEntry{
				Criterion: string(s),
				Points:    e.Score,
				Reason:    fmt.Sprintf("top of %s with score %d", s, e.Score),
			})
			// Momentum carries the full technical columns; prefer it as
			// the display base, falling back in aggregation order.
			if !haveBase {
				base = e
				haveBase = true
			}
		}

		avg := float64(sum) / float64(count)
		out = append(out, models.ScoredAsset{
			Ticker:         ticker,
			Company:        base.Company,
			Strategy:       models.StrategyGlobal,
			Score:          int(math.Round(avg)),
			DailyChangePct: base.DailyChangePct,
			VolumeRatio:    base.VolumeRatio,
			RSI:            base.RSI,
			Trend:          base.Trend,
			CurrentPrice:   base.CurrentPrice,
			Breakdown:      breakdown,
			StrategyCount:  count,
			AverageScore:   math.Round(avg*100) / 100,
			MemberOf:       memberOf,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StrategyCount != out[j].StrategyCount {
			return out[i].StrategyCount > out[j].StrategyCount
		}
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}
