package models

import "time"

// Trend classifies recent price direction over the trend lookback window.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Bar is one completed daily session of price/volume data.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a chronological sequence of daily bars for one asset.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of sessions in the series.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes extracts the close column in chronological order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// IndicatorSet holds the technical indicators derived from a single
// snapshot of an asset's price series. All fields come from the same
// snapshot; mixing bars from different fetches is not allowed.
type IndicatorSet struct {
	Ticker         string  `json:"ticker"`
	CurrentPrice   float64 `json:"current_price"`
	DailyChangePct float64 `json:"daily_change_pct"`
	Volume         int64   `json:"volume"`
	VolumeAvg30    float64 `json:"volume_avg_30d"`
	VolumeRatio    float64 `json:"volume_ratio"`
	// VolumeRatioUndefined is set when the trailing 30-session average
	// volume is zero. The ratio is reported as 0 and scores no points.
	VolumeRatioUndefined bool    `json:"-"`
	RSI14                float64 `json:"rsi"`
	SMA20                float64 `json:"sma_20"`
	AboveSMA             bool    `json:"above_sma"`
	Trend                Trend   `json:"trend"`
	// VolatilityPct is the stddev of daily returns over the series, in
	// percent. Consumed by the defensive strategy.
	VolatilityPct float64 `json:"volatility_pct"`
}

// FundamentalsSnapshot carries externally supplied valuation and quality
// metrics. Pointer fields distinguish "unavailable" from zero.
type FundamentalsSnapshot struct {
	Ticker        string   `json:"ticker"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"` // fraction, e.g. 0.02 = 2%
	ROE           *float64 `json:"roe,omitempty"`            // fraction
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"` // percent
	Beta          *float64 `json:"beta,omitempty"`
	Sector        string   `json:"sector,omitempty"`
}
