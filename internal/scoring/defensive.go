package scoring

import (
	"fmt"

	"CedearScan/internal/domain/models"
)

// DefensiveRules are the defensive strategy breakpoints and points.
type DefensiveRules struct {
	BetaLowThreshold    float64
	BetaMediumThreshold float64
	BetaLowPoints       int
	BetaMediumPoints    int
	VolLowThresholdPct    float64
	VolMediumThresholdPct float64
	VolLowPoints          int
	VolMediumPoints       int
	DividendThreshold float64 // fraction
	DividendPoints    int
	SectorPoints      int
	DebtThreshold float64 // percent
	DebtPoints    int
}

// DefaultDefensiveRules: +3 beta < 0.8, +1 beta < 1.0, +2 volatility
// < 2%, +1 < 3%, +2 dividend yield >= 1.5%, +2 defensive sector, +1
// debt/equity < 100%. The points sum to exactly the 10-point cap so the
// breakdown always adds up to the score.
func DefaultDefensiveRules() DefensiveRules {
	return DefensiveRules{
		BetaLowThreshold:      0.8,
		BetaMediumThreshold:   1.0,
		BetaLowPoints:         3,
		BetaMediumPoints:      1,
		VolLowThresholdPct:    2.0,
		VolMediumThresholdPct: 3.0,
		VolLowPoints:          2,
		VolMediumPoints:       1,
		DividendThreshold:     0.015,
		DividendPoints:        2,
		SectorPoints:          2,
		DebtThreshold:         100,
		DebtPoints:            1,
	}
}

// defensiveSectors are the sectors treated as defensive regardless of
// the provider's exact label variant.
var defensiveSectors = map[string]bool{
	"Consumer Defensive": true,
	"Consumer Staples":   true,
	"Healthcare":         true,
	"Health Care":        true,
	"Utilities":          true,
}

// DefensiveScorer rewards stability: low beta, low trailing volatility,
// steady dividends, defensive sectors, low leverage. Beta >= 1.0 or
// volatility above the band scores zero on those axes.
type DefensiveScorer struct {
	rules DefensiveRules
}

func NewDefensiveScorer(rules DefensiveRules) *DefensiveScorer {
	return &DefensiveScorer{rules: rules}
}

func (s *DefensiveScorer) Strategy() models.Strategy { return models.StrategyDefensive }

func (s *DefensiveScorer) MaxScore() int {
	return s.rules.BetaLowPoints + s.rules.VolLowPoints + s.rules.DividendPoints +
		s.rules.SectorPoints + s.rules.DebtPoints
}

func (s *DefensiveScorer) Score(in Input) *models.ScoredAsset {
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
	case f.Beta == nil || *f.Beta <= 0:
		add("beta", 0, "beta unavailable")
	case *f.Beta < r.BetaLowThreshold:
		add("beta", r.BetaLowPoints,
			fmt.Sprintf("beta %.2f < %.1f (very stable)", *f.Beta, r.BetaLowThreshold))
	case *f.Beta < r.BetaMediumThreshold:
		add("beta", r.BetaMediumPoints,
			fmt.Sprintf("beta %.2f < %.1f (stable)", *f.Beta, r.BetaMediumThreshold))
	default:
		add("beta", 0,
			fmt.Sprintf("beta %.2f >= %.1f (volatile)", *f.Beta, r.BetaMediumThreshold))
	}

	if in.Indicators == nil {
		add("volatility", 0, "volatility unavailable")
	} else {
		vol := in.Indicators.VolatilityPct
		switch {
		case vol < r.VolLowThresholdPct:
			add("volatility", r.VolLowPoints,
				fmt.Sprintf("volatility %.1f%% < %.1f%% (very low)", vol, r.VolLowThresholdPct))
		case vol < r.VolMediumThresholdPct:
			add("volatility", r.VolMediumPoints,
				fmt.Sprintf("volatility %.1f%% < %.1f%% (low)", vol, r.VolMediumThresholdPct))
		default:
			add("volatility", 0,
				fmt.Sprintf("volatility %.1f%% >= %.1f%% (high)", vol, r.VolMediumThresholdPct))
		}
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

	if defensiveSectors[f.Sector] {
		add("sector", r.SectorPoints, fmt.Sprintf("defensive sector: %s", f.Sector))
	} else if f.Sector == "" {
		add("sector", 0, "sector unavailable")
	} else {
		add("sector", 0, fmt.Sprintf("non-defensive sector: %s", f.Sector))
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
		Ticker:    in.Ticker,
		Company:   in.Company,
		Strategy:  models.StrategyDefensive,
		Score:     capScore(total, s.MaxScore()),
		Trend:     models.TrendNeutral,
		Breakdown: breakdown,
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
