package scoring

import (
	"testing"

	"CedearScan/internal/domain/models"
)

func entry(ticker string, strategy models.Strategy, score int) models.ScoredAsset {
	return models.ScoredAsset{Ticker: ticker, Strategy: strategy, Score: score}
}

func TestAggregateMembershipAndAverage(t *testing.T) {
	topSets := map[models.Strategy][]models.ScoredAsset{
		models.StrategyMomentum:  {entry("AAPL", models.StrategyMomentum, 8), entry("NVDA", models.StrategyMomentum, 7)},
		models.StrategyValue:     {entry("AAPL", models.StrategyValue, 6), entry("JPM", models.StrategyValue, 9)},
		models.StrategyDefensive: {entry("AAPL", models.StrategyDefensive, 10)},
	}

	got := NewAggregator().Aggregate(topSets)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	top := got[0]
	if top.Ticker != "AAPL" {
		t.Fatalf("expected AAPL first, got %s", top.Ticker)
	}
	if top.StrategyCount != 3 {
		t.Fatalf("expected 3 memberships, got %d", top.StrategyCount)
	}
	if top.AverageScore != 8.0 {
		t.Fatalf("expected average 8.0, got %v", top.AverageScore)
	}
	if top.Score != 8 {
		t.Fatalf("expected rounded score 8, got %d", top.Score)
	}
	want := []string{"momentum", "value", "defensive"}
	if len(top.MemberOf) != len(want) {
		t.Fatalf("member_of length %d, want %d", len(top.MemberOf), len(want))
	}
	for i, m := range want {
		if top.MemberOf[i] != m {
			t.Fatalf("member_of[%d] = %s, want %s", i, top.MemberOf[i], m)
		}
	}
}

func TestAggregateTieBreaks(t *testing.T) {
	topSets := map[models.Strategy][]models.ScoredAsset{
		models.StrategyMomentum: {entry("NVDA", models.StrategyMomentum, 7)},
		models.StrategyValue:    {entry("JPM", models.StrategyValue, 9)},
	}

	got := NewAggregator().Aggregate(topSets)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	// Same membership count: higher average first.
	if got[0].Ticker != "JPM" || got[1].Ticker != "NVDA" {
		t.Fatalf("expected JPM before NVDA, got %s, %s", got[0].Ticker, got[1].Ticker)
	}
}

func TestAggregateTickerTieBreak(t *testing.T) {
	topSets := map[models.Strategy][]models.ScoredAsset{
		models.StrategyMomentum: {entry("KO", models.StrategyMomentum, 5), entry("BA", models.StrategyMomentum, 5)},
	}

	got := NewAggregator().Aggregate(topSets)
	if got[0].Ticker != "BA" || got[1].Ticker != "KO" {
		t.Fatalf("equal membership and average must order by ticker, got %s, %s", got[0].Ticker, got[1].Ticker)
	}
}

func TestAggregateExcludesAbsentAssets(t *testing.T) {
	topSets := map[models.Strategy][]models.ScoredAsset{
		models.StrategyMomentum:  {entry("AAPL", models.StrategyMomentum, 8)},
		models.StrategyValue:     {},
		models.StrategyDefensive: {},
	}

	got := NewAggregator().Aggregate(topSets)
	if len(got) != 1 {
		t.Fatalf("assets outside every top set must not appear, got %d entries", len(got))
	}
	for _, e := range got {
		if e.StrategyCount < 1 {
			t.Fatalf("aggregated entry %s has no membership", e.Ticker)
		}
		if e.Strategy != models.StrategyGlobal {
			t.Fatalf("aggregated entry %s has strategy %s", e.Ticker, e.Strategy)
		}
	}
}

func TestAggregateBreakdownListsMemberStrategies(t *testing.T) {
	topSets := map[models.Strategy][]models.ScoredAsset{
		models.StrategyMomentum:  {entry("AAPL", models.StrategyMomentum, 8)},
		models.StrategyDefensive: {entry("AAPL", models.StrategyDefensive, 6)},
	}

	got := NewAggregator().Aggregate(topSets)
	if len(got) != 1 {
		t.Fatalf("expected a single entry, got %d", len(got))
	}
	bd := got[0].Breakdown
	if len(bd) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(bd))
	}
	if bd[0].Criterion != "momentum" || bd[1].Criterion != "defensive" {
		t.Fatalf("breakdown must follow aggregation order, got %s, %s", bd[0].Criterion, bd[1].Criterion)
	}
	if got[0].AverageScore != 7.0 {
		t.Fatalf("expected average 7.0, got %v", got[0].AverageScore)
	}
}
