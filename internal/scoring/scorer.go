package scoring

import (
	"CedearScan/internal/domain/models"
)

// Input bundles everything a strategy may score. Technical strategies
// use Indicators; fundamental strategies use Fundamentals plus the
// volatility carried on Indicators. Either may be nil depending on the
// strategy.
type Input struct {
	Ticker       string
	Company      string
	Indicators   *models.IndicatorSet
	Fundamentals *models.FundamentalsSnapshot
}

// Scorer turns an asset's inputs into a bounded score with a full
// per-criterion breakdown. The breakdown lists every evaluated
// criterion, including zero-point ones, and its point sum equals the
// total. Strategy dispatch lives here and nowhere else.
type Scorer interface {
	Strategy() models.Strategy
	// MaxScore is the cap applied to the summed criteria.
	MaxScore() int
	Score(in Input) *models.ScoredAsset
}

// ForStrategy returns the scorer for a concrete strategy, or nil for
// unknown/composite strategies (global is built by the Aggregator).
func ForStrategy(s models.Strategy, rules Rules) Scorer {
	switch s {
	case models.StrategyMomentum:
		return NewMomentumScorer(rules.Momentum)
	case models.StrategyValue:
		return NewValueScorer(rules.Value)
	case models.StrategyDefensive:
		return NewDefensiveScorer(rules.Defensive)
	}
	return nil
}

// Rules aggregates the per-strategy scoring rule constants.
type Rules struct {
	Momentum  MomentumRules
	Value     ValueRules
	Defensive DefensiveRules
}

// DefaultRules returns the published scoring methodology.
func DefaultRules() Rules {
	return Rules{
		Momentum:  DefaultMomentumRules(),
		Value:     DefaultValueRules(),
		Defensive: DefaultDefensiveRules(),
	}
}

func capScore(total, max int) int {
	if total > max {
		return max
	}
	return total
}
