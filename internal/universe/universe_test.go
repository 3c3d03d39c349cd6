package universe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"CedearScan/internal/domain/models"
)

func TestDefaultUniverse(t *testing.T) {
	u := Default()
	if u.Size() != 20 {
		t.Fatalf("default universe has %d assets, want 20", u.Size())
	}
	if !u.Contains("AAPL") || !u.Contains("BABA") {
		t.Fatalf("expected AAPL and BABA in the default universe")
	}
	if u.Contains("ZZZZ") {
		t.Fatalf("unknown ticker reported as present")
	}
}

func TestCompanyFallsBackToTicker(t *testing.T) {
	u := New([]Asset{{Ticker: "KO", Company: "The Coca-Cola Company"}, {Ticker: "XX"}})
	if got := u.Company("KO"); got != "The Coca-Cola Company" {
		t.Fatalf("company %q", got)
	}
	if got := u.Company("XX"); got != "XX" {
		t.Fatalf("empty company must fall back to ticker, got %q", got)
	}
	if got := u.Company("MISSING"); got != "MISSING" {
		t.Fatalf("unknown ticker must fall back to itself, got %q", got)
	}
}

func TestTickersAreSorted(t *testing.T) {
	u := New([]Asset{{Ticker: "KO"}, {Ticker: "AAPL"}, {Ticker: "JPM"}})
	want := []string{"AAPL", "JPM", "KO"}
	if got := u.Tickers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tickers %v, want %v", got, want)
	}
}

func TestTickersForFiltersByStrategy(t *testing.T) {
	u := New([]Asset{
		{Ticker: "AAPL"}, // no list: applies to every strategy
		{Ticker: "KO", Strategies: []string{"value", "defensive"}},
		{Ticker: "NVDA", Strategies: []string{"momentum"}},
	})

	cases := []struct {
		strategy models.Strategy
		want     []string
	}{
		{models.StrategyMomentum, []string{"AAPL", "NVDA"}},
		{models.StrategyValue, []string{"AAPL", "KO"}},
		{models.StrategyDefensive, []string{"AAPL", "KO"}},
	}
	for _, tc := range cases {
		if got := u.TickersFor(tc.strategy); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("TickersFor(%s) = %v, want %v", tc.strategy, got, tc.want)
		}
	}
}

func TestAssetsFollowTickerOrder(t *testing.T) {
	u := New([]Asset{{Ticker: "KO", Ratio: 5}, {Ticker: "AAPL", Ratio: 10}})
	assets := u.Assets()
	if len(assets) != 2 || assets[0].Ticker != "AAPL" || assets[1].Ticker != "KO" {
		t.Fatalf("unexpected asset order: %+v", assets)
	}
	if assets[0].Ratio != 10 {
		t.Fatalf("ratio not preserved: %+v", assets[0])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	doc := `assets:
  - ticker: AAPL
    company: Apple Inc.
    ratio: 10
  - ticker: KO
    company: The Coca-Cola Company
    ratio: 5
    strategies: [value, defensive]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	u, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if u.Size() != 2 {
		t.Fatalf("size %d, want 2", u.Size())
	}
	if got := u.TickersFor(models.StrategyMomentum); !reflect.DeepEqual(got, []string{"AAPL"}) {
		t.Fatalf("momentum tickers %v", got)
	}
}

func TestLoadFileRejectsBadInput(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("assets: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Fatalf("empty asset list must error")
	}

	noTicker := filepath.Join(t.TempDir(), "noticker.yaml")
	if err := os.WriteFile(noTicker, []byte("assets:\n  - company: Nameless\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(noTicker); err == nil {
		t.Fatalf("asset without ticker must error")
	}
}
