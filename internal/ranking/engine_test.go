package ranking

import (
	"reflect"
	"testing"
	"time"

	"CedearScan/internal/domain/models"
)

func scored(ticker string, score int) models.ScoredAsset {
	return models.ScoredAsset{Ticker: ticker, Strategy: models.StrategyMomentum, Score: score}
}

func tickersOf(entries []models.ScoredAsset) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Ticker
	}
	return out
}

var now = time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)

func TestRankOrdersByScoreThenTicker(t *testing.T) {
	assets := []models.ScoredAsset{
		scored("KO", 5),
		scored("AAPL", 5),
		scored("NVDA", 7),
		scored("BA", 2),
	}

	e := New(6)
	res := e.Rank(models.StrategyMomentum, assets, 0, now, 0)

	want := []string{"NVDA", "AAPL", "KO", "BA"}
	if !reflect.DeepEqual(tickersOf(res.Entries), want) {
		t.Fatalf("order %v, want %v", tickersOf(res.Entries), want)
	}
	if res.Date != "2026-08-21" {
		t.Fatalf("unexpected date %s", res.Date)
	}
	if res.Total != 4 {
		t.Fatalf("total %d, want 4", res.Total)
	}
	if res.Disclaimer == "" {
		t.Fatalf("disclaimer missing")
	}
}

func TestRankIsDeterministic(t *testing.T) {
	assets := []models.ScoredAsset{
		scored("V", 4), scored("DIS", 4), scored("GS", 4), scored("JPM", 4),
	}

	e := New(6)
	first := e.Rank(models.StrategyMomentum, assets, 0, now, 0)
	for i := 0; i < 10; i++ {
		again := e.Rank(models.StrategyMomentum, assets, 0, now, 0)
		if !reflect.DeepEqual(tickersOf(first.Entries), tickersOf(again.Entries)) {
			t.Fatalf("run %d produced different order", i)
		}
	}
}

func TestRankTruncates(t *testing.T) {
	assets := []models.ScoredAsset{
		scored("A", 9), scored("B", 8), scored("C", 7), scored("D", 6),
	}

	e := New(2)
	res := e.Rank(models.StrategyMomentum, assets, 1, now, 0)
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.Total != 4 {
		t.Fatalf("total must count the whole universe, got %d", res.Total)
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped %d, want 1", res.Skipped)
	}

	res = e.Rank(models.StrategyMomentum, assets, 0, now, 3)
	if len(res.Entries) != 3 {
		t.Fatalf("explicit limit 3 ignored, got %d entries", len(res.Entries))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	assets := []models.ScoredAsset{scored("B", 1), scored("A", 9)}
	e := New(6)
	_ = e.Rank(models.StrategyMomentum, assets, 0, now, 0)
	if assets[0].Ticker != "B" {
		t.Fatalf("input slice was reordered")
	}
}

func TestRankGlobalKeepsAggregatorOrder(t *testing.T) {
	entries := []models.ScoredAsset{
		{Ticker: "AAPL", Strategy: models.StrategyGlobal, StrategyCount: 3, AverageScore: 8},
		{Ticker: "KO", Strategy: models.StrategyGlobal, StrategyCount: 1, AverageScore: 9},
	}

	e := New(6)
	res := e.RankGlobal(entries, 0, now, 1)
	if len(res.Entries) != 1 || res.Entries[0].Ticker != "AAPL" {
		t.Fatalf("global order must be preserved, got %v", tickersOf(res.Entries))
	}
	if res.Strategy != models.StrategyGlobal {
		t.Fatalf("strategy %s, want global", res.Strategy)
	}
}
