package universe

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"CedearScan/internal/domain/models"
)

// Asset describes one entry of the screener universe: the underlying
// ticker, the company name, and the strategies it participates in
// (empty means all).
type Asset struct {
	Ticker     string   `yaml:"ticker" json:"ticker"`
	Company    string   `yaml:"company" json:"company"`
	Ratio      int      `yaml:"ratio" json:"ratio"`
	Strategies []string `yaml:"strategies,omitempty" json:"strategies,omitempty"`
}

// Universe is the static set of depositary-receipt underlyings analyzed
// by the screener. Constructed once at startup; read-only afterwards.
type Universe struct {
	assets map[string]Asset
}

// New builds a universe from an explicit asset list.
func New(assets []Asset) *Universe {
	u := &Universe{assets: make(map[string]Asset, len(assets))}
	for _, a := range assets {
		u.assets[a.Ticker] = a
	}
	return u
}

// Default returns the built-in universe of 20 large-cap underlyings.
func Default() *Universe {
	return New(defaultAssets)
}

// LoadFile reads a YAML universe definition, replacing the default set.
func LoadFile(path string) (*Universe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	var doc struct {
		Assets []Asset `yaml:"assets"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if len(doc.Assets) == 0 {
		return nil, fmt.Errorf("universe file %s lists no assets", path)
	}
	u := &Universe{assets: make(map[string]Asset, len(doc.Assets))}
	for _, a := range doc.Assets {
		if a.Ticker == "" {
			return nil, fmt.Errorf("universe file %s has an asset without ticker", path)
		}
		u.assets[a.Ticker] = a
	}
	return u, nil
}

// Contains reports whether ticker is part of the universe.
func (u *Universe) Contains(ticker string) bool {
	_, ok := u.assets[ticker]
	return ok
}

// Company returns the company name for ticker, or the ticker itself when
// unknown.
func (u *Universe) Company(ticker string) string {
	if a, ok := u.assets[ticker]; ok && a.Company != "" {
		return a.Company
	}
	return ticker
}

// Tickers returns all tickers in lexical order.
func (u *Universe) Tickers() []string {
	out := make([]string, 0, len(u.assets))
	for t := range u.assets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TickersFor returns the tickers applicable to the given strategy, in
// lexical order. Assets without an explicit strategy list apply to all.
func (u *Universe) TickersFor(s models.Strategy) []string {
	out := make([]string, 0, len(u.assets))
	for t, a := range u.assets {
		if len(a.Strategies) == 0 {
			out = append(out, t)
			continue
		}
		for _, name := range a.Strategies {
			if models.Strategy(name) == s {
				out = append(out, t)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Assets returns all universe entries in ticker order.
func (u *Universe) Assets() []Asset {
	out := make([]Asset, 0, len(u.assets))
	for _, t := range u.Tickers() {
		out = append(out, u.assets[t])
	}
	return out
}

// Size returns the number of assets.
func (u *Universe) Size() int { return len(u.assets) }

var defaultAssets = []Asset{
	{Ticker: "AAPL", Company: "Apple Inc.", Ratio: 10},
	{Ticker: "MSFT", Company: "Microsoft Corporation", Ratio: 5},
	{Ticker: "GOOGL", Company: "Alphabet Inc.", Ratio: 29},
	{Ticker: "AMZN", Company: "Amazon.com Inc.", Ratio: 72},
	{Ticker: "TSLA", Company: "Tesla Inc.", Ratio: 15},
	{Ticker: "NVDA", Company: "NVIDIA Corporation", Ratio: 4},
	{Ticker: "META", Company: "Meta Platforms Inc.", Ratio: 6},
	{Ticker: "KO", Company: "The Coca-Cola Company", Ratio: 5},
	{Ticker: "JNJ", Company: "Johnson & Johnson", Ratio: 3},
	{Ticker: "JPM", Company: "JPMorgan Chase & Co.", Ratio: 4},
	{Ticker: "V", Company: "Visa Inc.", Ratio: 4},
	{Ticker: "DIS", Company: "The Walt Disney Company", Ratio: 4},
	{Ticker: "NFLX", Company: "Netflix Inc.", Ratio: 8},
	{Ticker: "AMD", Company: "Advanced Micro Devices Inc.", Ratio: 5},
	{Ticker: "INTC", Company: "Intel Corporation", Ratio: 4},
	{Ticker: "PEP", Company: "PepsiCo Inc.", Ratio: 4},
	{Ticker: "WMT", Company: "Walmart Inc.", Ratio: 5},
	{Ticker: "BA", Company: "The Boeing Company", Ratio: 3},
	{Ticker: "GS", Company: "Goldman Sachs Group Inc.", Ratio: 3},
	{Ticker: "BABA", Company: "Alibaba Group Holding Ltd.", Ratio: 9},
}
