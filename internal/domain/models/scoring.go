package models

// Strategy identifies a scoring strategy.
type Strategy string

const (
	StrategyMomentum  Strategy = "momentum"
	StrategyValue     Strategy = "value"
	StrategyDefensive Strategy = "defensive"
	StrategyGlobal    Strategy = "global"
)

// Strategies lists the concrete (non-composite) strategies in evaluation
// order. Global is derived from these three.
var Strategies = []Strategy{StrategyMomentum, StrategyValue, StrategyDefensive}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyMomentum, StrategyValue, StrategyDefensive, StrategyGlobal:
		return true
	}
	return false
}

// BreakdownEntry is one evaluated criterion: the points it contributed
// and a reason citing the actual values compared. Zero-point entries are
// kept so every evaluated criterion is visible.
type BreakdownEntry struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
	Reason    string `json:"reason"`
}

// ScoreBreakdown is the ordered list of criteria evaluated for a score.
// The point sum always equals the asset's total score.
type ScoreBreakdown []BreakdownEntry

// Total sums the points of all entries.
func (b ScoreBreakdown) Total() int {
	t := 0
	for _, e := range b {
		t += e.Points
	}
	return t
}

// ScoredAsset is the immutable result of scoring one asset under one
// strategy in one computation run.
type ScoredAsset struct {
	Ticker         string         `json:"ticker"`
	Company        string         `json:"company"`
	Strategy       Strategy       `json:"strategy"`
	Score          int            `json:"score"`
	DailyChangePct float64        `json:"daily_change_pct"`
	VolumeRatio    float64        `json:"volume_ratio"`
	RSI            float64        `json:"rsi"`
	Trend          Trend          `json:"trend"`
	CurrentPrice   float64        `json:"current_price"`
	Breakdown      ScoreBreakdown `json:"score_breakdown,omitempty"`

	// Global-only fields. The composite strategy has its own explicit
	// shape instead of reusing the technical columns for other meanings.
	StrategyCount int      `json:"strategy_count,omitempty"`
	AverageScore  float64  `json:"average_score,omitempty"`
	MemberOf      []string `json:"member_of,omitempty"`
}

// RankedResult is the ordered outcome of one ranking run for a strategy.
type RankedResult struct {
	Date       string        `json:"date"`
	Strategy   Strategy      `json:"strategy"`
	Disclaimer string        `json:"disclaimer"`
	Total      int           `json:"total"`
	Entries    []ScoredAsset `json:"entries"`
	// Skipped counts assets excluded from this run (insufficient data,
	// provider failure). Excluded is not the same as score zero.
	Skipped int `json:"skipped,omitempty"`
}

// AssetAnalysis is the single-asset view: the derived indicators plus
// the asset's score under every concrete strategy.
type AssetAnalysis struct {
	Ticker     string                  `json:"ticker"`
	Company    string                  `json:"company"`
	Date       string                  `json:"date"`
	Indicators *IndicatorSet           `json:"indicators"`
	Scores     map[string]*ScoredAsset `json:"scores"`
	Disclaimer string                  `json:"disclaimer"`
}

// Disclaimer accompanies every ranking; this tool is informational only.
const Disclaimer = "This analysis is informational and educational only. " +
	"It is not financial advice nor an investment recommendation. " +
	"Technical indicators reflect past behavior and do not guarantee future results."
