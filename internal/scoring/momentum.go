package scoring

import (
	"fmt"

	"CedearScan/internal/domain/models"
)

// MomentumRules are the momentum strategy thresholds and points. The
// asymmetric weights are deliberate: momentum rewards acceleration, not
// just direction.
type MomentumRules struct {
	DailyChangeThreshold float64
	DailyChangePoints    int
	VolumePoints         int
	RSIMin               float64
	RSIMax               float64
	RSIPoints            int
	AboveSMAPoints       int
	BullishTrendPoints   int
}

// DefaultMomentumRules: +3 daily change > 2%, +2 volume above average,
// +2 RSI in the 50-70 band, +2 price above SMA20, +1 bullish trend.
func DefaultMomentumRules() MomentumRules {
	return MomentumRules{
		DailyChangeThreshold: 2.0,
		DailyChangePoints:    3,
		VolumePoints:         2,
		RSIMin:               50,
		RSIMax:               70,
		RSIPoints:            2,
		AboveSMAPoints:       2,
		BullishTrendPoints:   1,
	}
}

// MomentumScorer scores technical strength from an IndicatorSet.
type MomentumScorer struct {
	rules MomentumRules
}

func NewMomentumScorer(rules MomentumRules) *MomentumScorer {
	return &MomentumScorer{rules: rules}
}

func (s *MomentumScorer) Strategy() models.Strategy { return models.StrategyMomentum }

func (s *MomentumScorer) MaxScore() int {
	return s.rules.DailyChangePoints + s.rules.VolumePoints + s.rules.RSIPoints +
		s.rules.AboveSMAPoints + s.rules.BullishTrendPoints
}

// Score evaluates the five momentum rules in fixed order so breakdowns
// are reproducible across runs.
func (s *MomentumScorer) Score(in Input) *models.ScoredAsset {
	ind := in.Indicators
	r := s.rules
	total := 0
	breakdown := make(models.ScoreBreakdown, 0, 5)

	add := func(criterion string, points int, reason string) {
		total += points
		breakdown = append(breakdown, models.BreakdownEntry{
			Criterion: criterion, Points: points, Reason: reason,
		})
	}

	if ind.DailyChangePct > r.DailyChangeThreshold {
		add("daily_change", r.DailyChangePoints,
			fmt.Sprintf("daily change %.2f%% > %.1f%%", ind.DailyChangePct, r.DailyChangeThreshold))
	} else {
		add("daily_change", 0,
			fmt.Sprintf("daily change %.2f%% <= %.1f%%", ind.DailyChangePct, r.DailyChangeThreshold))
	}

	if !ind.VolumeRatioUndefined && ind.VolumeRatio > 1.0 {
		add("volume", r.VolumePoints,
			fmt.Sprintf("volume %.2fx the 30-session average", ind.VolumeRatio))
	} else if ind.VolumeRatioUndefined {
		add("volume", 0, "volume ratio undefined (zero trailing average)")
	} else {
		add("volume", 0,
			fmt.Sprintf("volume %.2fx (at or below the 30-session average)", ind.VolumeRatio))
	}

	if ind.RSI14 >= r.RSIMin && ind.RSI14 <= r.RSIMax {
		add("rsi", r.RSIPoints,
			fmt.Sprintf("RSI %.1f inside the %.0f-%.0f band", ind.RSI14, r.RSIMin, r.RSIMax))
	} else if ind.RSI14 < r.RSIMin {
		add("rsi", 0,
			fmt.Sprintf("RSI %.1f below %.0f (oversold)", ind.RSI14, r.RSIMin))
	} else {
		add("rsi", 0,
			fmt.Sprintf("RSI %.1f above %.0f (overbought)", ind.RSI14, r.RSIMax))
	}

	if ind.AboveSMA {
		add("sma", r.AboveSMAPoints,
			fmt.Sprintf("price $%.2f > SMA20 $%.2f", ind.CurrentPrice, ind.SMA20))
	} else {
		add("sma", 0,
			fmt.Sprintf("price $%.2f <= SMA20 $%.2f", ind.CurrentPrice, ind.SMA20))
	}

	if ind.Trend == models.TrendBullish {
		add("trend", r.BullishTrendPoints, "bullish trend over the last 5 sessions")
	} else {
		add("trend", 0, fmt.Sprintf("trend %s", ind.Trend))
	}

	return &models.ScoredAsset{
		Ticker:         in.Ticker,
		Company:        in.Company,
		Strategy:       models.StrategyMomentum,
		Score:          capScore(total, s.MaxScore()),
		DailyChangePct: ind.DailyChangePct,
		VolumeRatio:    ind.VolumeRatio,
		RSI:            ind.RSI14,
		Trend:          ind.Trend,
		CurrentPrice:   ind.CurrentPrice,
		Breakdown:      breakdown,
	}
}
