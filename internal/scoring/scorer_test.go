package scoring

import (
	"testing"

	"CedearScan/internal/domain/models"
)

func fp(v float64) *float64 { return &v }

func strongMomentumInput() Input {
	return Input{
		Ticker:  "AAPL",
		Company: "Apple Inc.",
		Indicators: &models.IndicatorSet{
			Ticker:         "AAPL",
			CurrentPrice:   190.50,
			DailyChangePct: 3.45,
			VolumeRatio:    1.82,
			RSI14:          62.5,
			SMA20:          182.30,
			AboveSMA:       true,
			Trend:          models.TrendBullish,
		},
	}
}

func TestMomentumFullScore(t *testing.T) {
	s := NewMomentumScorer(DefaultMomentumRules())
	got := s.Score(strongMomentumInput())

	if got.Score != 10 {
		t.Fatalf("expected full score 10, got %d", got.Score)
	}
	if got.Score != s.MaxScore() {
		t.Fatalf("full score must equal MaxScore %d", s.MaxScore())
	}
	if len(got.Breakdown) != 5 {
		t.Fatalf("expected 5 breakdown entries, got %d", len(got.Breakdown))
	}
}

func TestMomentumZeroScore(t *testing.T) {
	s := NewMomentumScorer(DefaultMomentumRules())
	got := s.Score(Input{
		Ticker: "WMT",
		Indicators: &models.IndicatorSet{
			DailyChangePct: -1.2,
			VolumeRatio:    0.6,
			RSI14:          38.0,
			AboveSMA:       false,
			Trend:          models.TrendBearish,
		},
	})

	if got.Score != 0 {
		t.Fatalf("expected zero score, got %d", got.Score)
	}
	// Zero-point criteria still appear in the breakdown.
	if len(got.Breakdown) != 5 {
		t.Fatalf("expected 5 breakdown entries, got %d", len(got.Breakdown))
	}
}

func TestMomentumUndefinedVolumeNeverScores(t *testing.T) {
	s := NewMomentumScorer(DefaultMomentumRules())
	in := strongMomentumInput()
	in.Indicators.VolumeRatio = 0
	in.Indicators.VolumeRatioUndefined = true

	got := s.Score(in)
	if got.Score != 8 {
		t.Fatalf("expected 8 with undefined volume, got %d", got.Score)
	}
}

func TestValueFullScore(t *testing.T) {
	s := NewValueScorer(DefaultValueRules())
	got := s.Score(Input{
		Ticker: "JPM",
		Fundamentals: &models.FundamentalsSnapshot{
			PERatio:       fp(10),
			PriceToBook:   fp(1.5),
			DividendYield: fp(0.03),
			ROE:           fp(0.20),
			DebtToEquity:  fp(50),
		},
	})

	if got.Score != 10 {
		t.Fatalf("expected full score 10, got %d", got.Score)
	}
}

func TestValueMissingFundamentalsScoreZero(t *testing.T) {
	s := NewValueScorer(DefaultValueRules())
	got := s.Score(Input{
		Ticker:       "TSLA",
		Fundamentals: &models.FundamentalsSnapshot{Ticker: "TSLA"},
	})

	if got.Score != 0 {
		t.Fatalf("missing fundamentals must contribute zero, got %d", got.Score)
	}
	for _, e := range got.Breakdown {
		if e.Points != 0 {
			t.Fatalf("criterion %s scored %d without data", e.Criterion, e.Points)
		}
	}
}

func TestValueModeratePE(t *testing.T) {
	s := NewValueScorer(DefaultValueRules())
	got := s.Score(Input{
		Ticker:       "V",
		Fundamentals: &models.FundamentalsSnapshot{PERatio: fp(20)},
	})
	if got.Score != 1 {
		t.Fatalf("P/E 20 should score the medium 1 point, got %d", got.Score)
	}
}

func TestDefensiveFullScore(t *testing.T) {
	s := NewDefensiveScorer(DefaultDefensiveRules())
	got := s.Score(Input{
		Ticker: "KO",
		Indicators: &models.IndicatorSet{
			VolatilityPct: 1.2,
			Trend:         models.TrendNeutral,
		},
		Fundamentals: &models.FundamentalsSnapshot{
			Beta:          fp(0.55),
			DividendYield: fp(0.029),
			Sector:        "Consumer Defensive",
			DebtToEquity:  fp(80),
		},
	})

	if got.Score != 10 {
		t.Fatalf("expected full score 10, got %d", got.Score)
	}
	if got.Score != s.MaxScore() {
		t.Fatalf("defensive MaxScore must be 10, got %d", s.MaxScore())
	}
}

func TestDefensiveMediumBands(t *testing.T) {
	s := NewDefensiveScorer(DefaultDefensiveRules())
	got := s.Score(Input{
		Ticker: "PEP",
		Indicators: &models.IndicatorSet{
			VolatilityPct: 2.5,
			Trend:         models.TrendNeutral,
		},
		Fundamentals: &models.FundamentalsSnapshot{
			Beta: fp(0.9),
		},
	})

	// beta 0.9 -> 1, volatility 2.5% -> 1, everything else zero.
	if got.Score != 2 {
		t.Fatalf("expected 2, got %d", got.Score)
	}
}

func TestBreakdownSumsEqualScore(t *testing.T) {
	in := Input{
		Ticker: "GS",
		Indicators: &models.IndicatorSet{
			DailyChangePct: 2.4,
			VolumeRatio:    1.1,
			RSI14:          55,
			AboveSMA:       true,
			Trend:          models.TrendNeutral,
			VolatilityPct:  2.2,
		},
		Fundamentals: &models.FundamentalsSnapshot{
			PERatio:       fp(12),
			PriceToBook:   fp(1.1),
			DividendYield: fp(0.025),
			ROE:           fp(0.11),
			DebtToEquity:  fp(140),
			Beta:          fp(1.3),
			Sector:        "Financial Services",
		},
	}

	for _, strategy := range models.Strategies {
		s := ForStrategy(strategy, DefaultRules())
		got := s.Score(in)
		if got.Breakdown.Total() != got.Score {
			t.Fatalf("%s: breakdown sum %d != score %d", strategy, got.Breakdown.Total(), got.Score)
		}
		if got.Score < 0 || got.Score > s.MaxScore() {
			t.Fatalf("%s: score %d outside [0, %d]", strategy, got.Score, s.MaxScore())
		}
	}
}

func TestForStrategyDispatch(t *testing.T) {
	for _, strategy := range models.Strategies {
		s := ForStrategy(strategy, DefaultRules())
		if s == nil {
			t.Fatalf("no scorer for %s", strategy)
		}
		if s.Strategy() != strategy {
			t.Fatalf("scorer reports %s, want %s", s.Strategy(), strategy)
		}
	}
	if ForStrategy(models.StrategyGlobal, DefaultRules()) != nil {
		t.Fatalf("global must not have a direct scorer")
	}
}
