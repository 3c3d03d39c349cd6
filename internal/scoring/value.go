package scoring

import (
	"fmt"

	"CedearScan/internal/domain/models"
)

// ValueRules are the value strategy breakpoints and points.
type ValueRules struct {
	PELowThreshold    float64
	PEMediumThreshold float64
	PELowPoints       int
	PEMediumPoints    int
	PBThreshold       float64
	PBPoints          int
	DividendThreshold float64 // fraction
	DividendPoints    int
	ROEThreshold      float64 // fraction
	ROEPoints         int
	DebtThreshold     float64 // percent
	DebtPoints        int
}

// DefaultValueRules: +3 P/E < 15, +1 P/E < 25, +2 P/B < 3, +2 dividend
// yield >= 2%, +2 ROE >= 15%, +1 D/E < 100%.
func DefaultValueRules() ValueRules {
	return ValueRules{
		PELowThreshold:    15,
		PEMediumThreshold: 25,
		PELowPoints:       3,
		PEMediumPoints:    1,
		PBThreshold:       3,
		PBPoints:          2,
		DividendThreshold: 0.02,
		DividendPoints:    2,
		ROEThreshold:      0.15,
		ROEPoints:         2,
		DebtThreshold:     100,
		DebtPoints:        1,
	}
}

// ValueScorer scores cheapness and quality from fundamentals. Missing
// fields contribute zero and are labelled unavailable, never penalized.
type ValueScorer struct {
	rules ValueRules
}

func NewValueScorer(rules ValueRules) *ValueScorer {
	return &ValueScorer{rules: rules}
}

func (s *ValueScorer) Strategy() models.Strategy { return models.StrategyValue }

func (s *ValueScorer) MaxScore() int {
	return s.rules.PELowPoints + s.rules.PBPoints + s.rules.DividendPoints +
		s.rules.ROEPoints + s.rules.DebtPoints
}

func (s *ValueScorer) Score(in Input) *models.ScoredAsset {
	f := in.Fundamentals
	r := s.rules
	total := 0
	breakdown := make(models.ScoreBreakdown, 0, 5)

	add := func(criterion string, points int, reason string) {
		total += points
		breakdown = append(breakdown, models.BreakdownEntry{
			Criterion: criterion, Points: points, Reason: reason,
		})
	}

	switch {
	case f.PERatio == nil || *f.PERatio <= 0:
		add("pe_ratio", 0, "P/E unavailable or negative")
	case *f.PERatio < r.PELowThreshold:
		add("pe_ratio", r.PELowPoints,
			fmt.Sprintf("P/E %.1f < %.0f (very cheap)", *f.PERatio, r.PELowThreshold))
	case *f.PERatio < r.PEMediumThreshold:
		add("pe_ratio", r.PEMediumPoints,
			fmt.Sprintf("P/E %.1f < %.0f (acceptable)", *f.PERatio, r.PEMediumThreshold))
	default:
		add("pe_ratio", 0,
			fmt.Sprintf("P/E %.1f >= %.0f (expensive)", *f.PERatio, r.PEMediumThreshold))
	}

	switch {
	case f.PriceToBook == nil || *f.PriceToBook <= 0:
		add("price_to_book", 0, "P/B unavailable")
	case *f.PriceToBook < r.PBThreshold:
		add("price_to_book", r.PBPoints,
			fmt.Sprintf("P/B %.1f < %.0f (cheap against book value)", *f.PriceToBook, r.PBThreshold))
	default:
		add("price_to_book", 0,
			fmt.Sprintf("P/B %.1f >= %.0f", *f.PriceToBook, r.PBThreshold))
	}

	switch {
	case f.DividendYield == nil || *f.DividendYield <= 0:
		add("dividend", 0, "no dividend paid")
	case *f.DividendYield >= r.DividendThreshold:
		add("dividend", r.DividendPoints,
			fmt.Sprintf("dividend yield %.1f%% >= %.1f%%", *f.DividendYield*100, r.DividendThreshold*100))
	default:
		add("dividend", 0,
			fmt.Sprintf("dividend yield %.1f%% < %.1f%%", *f.DividendYield*100, r.DividendThreshold*100))
	}

	switch {
	case f.ROE == nil:
		add("roe", 0, "ROE unavailable")
	case *f.ROE >= r.ROEThreshold:
		add("roe", r.ROEPoints,
			fmt.Sprintf("ROE %.1f%% >= %.0f%% (profitable)", *f.ROE*100, r.ROEThreshold*100))
	default:
		add("roe", 0,
			fmt.Sprintf("ROE %.1f%% < %.0f%%", *f.ROE*100, r.ROEThreshold*100))
	}

	switch {
	case f.DebtToEquity == nil:
		add("debt", 0, "debt/equity unavailable")
	case *f.DebtToEquity < r.DebtThreshold:
		add("debt", r.DebtPoints,
			fmt.Sprintf("debt/equity %.0f%% < %.0f%%", *f.DebtToEquity, r.DebtThreshold))
	default:
		add("debt", 0,
			fmt.Sprintf("debt/equity %.0f%% >= %.0f%% (leveraged)", *f.DebtToEquity, r.DebtThreshold))
	}

	out := &models.ScoredAsset{
		Ticker:       in.Ticker,
		Company:      in.Company,
		Strategy:     models.StrategyValue,
		Score:        capScore(total, s.MaxScore()),
		Trend:        models.TrendNeutral,
		Breakdown:    breakdown,
	}
	if in.Indicators != nil {
		out.DailyChangePct = in.Indicators.DailyChangePct
		out.VolumeRatio = in.Indicators.VolumeRatio
		out.RSI = in.Indicators.RSI14
		out.Trend = in.Indicators.Trend
		out.CurrentPrice = in.Indicators.CurrentPrice
	}
	return out
}
