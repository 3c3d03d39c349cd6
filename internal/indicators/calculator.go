package indicators

import (
	"fmt"
	"math"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/domain/repository"
)

// Params are the indicator window sizes and trend thresholds. They are
// policy constants chosen for explainability, kept configurable rather
// than hard-coded.
type Params struct {
	RSIPeriod       int
	SMAPeriod       int
	VolumeMAPeriod  int
	TrendLookback   int
	TrendBandPct    float64 // |5-session change| above this is bullish/bearish
	MinSessions     int
	LookbackDays    int // calendar days requested from the provider
}

// DefaultParams mirrors the screener's published methodology.
func DefaultParams() Params {
	return Params{
		RSIPeriod:      14,
		SMAPeriod:      20,
		VolumeMAPeriod: 30,
		TrendLookback:  5,
		TrendBandPct:   1.0,
		MinSessions:    30,
		LookbackDays:   60,
	}
}

// Calculator derives an IndicatorSet from a price series snapshot.
type Calculator struct {
	params Params
}

// New creates a Calculator with the given params.
func New(params Params) *Calculator {
	return &Calculator{params: params}
}

// LookbackSessions is the number of daily bars to request from the
// provider so every indicator window is covered.
func (c *Calculator) LookbackSessions() int { return c.params.LookbackDays }

// Compute derives all indicators from one series snapshot. Series with
// fewer than MinSessions completed sessions fail with
// repository.ErrInsufficientData; callers skip the asset, not the run.
func (c *Calculator) Compute(series *models.PriceSeries) (*models.IndicatorSet, error) {
	n := series.Len()
	if n < c.params.MinSessions {
		return nil, fmt.Errorf("%s: %d of %d sessions: %w",
			series.Ticker, n, c.params.MinSessions, repository.ErrInsufficientData)
	}

	bars := series.Bars
	closes := series.Closes()
	last := bars[n-1]

	set := &models.IndicatorSet{
		Ticker:       series.Ticker,
		CurrentPrice: round2(last.Close),
		Volume:       last.Volume,
	}

	prevClose := bars[n-2].Close
	if prevClose != 0 {
		set.DailyChangePct = round2((last.Close - prevClose) / prevClose * 100)
	}

	avgVol := trailingMeanVolume(bars, c.params.VolumeMAPeriod)
	set.VolumeAvg30 = math.Round(avgVol)
	if avgVol > 0 {
		set.VolumeRatio = round2(float64(last.Volume) / avgVol)
	} else {
		// Zero trailing volume makes the ratio undefined; report 0 so it
		// never scores, and never divide.
		set.VolumeRatioUndefined = true
	}

	set.RSI14 = round2(wilderRSI(closes, c.params.RSIPeriod))
	set.SMA20 = round2(sma(closes, c.params.SMAPeriod))
	set.AboveSMA = set.CurrentPrice > set.SMA20
	set.Trend = c.trend(closes)
	set.VolatilityPct = round2(returnStddev(closes) * 100)

	return set, nil
}

// wilderRSI computes the Wilder-smoothed RSI over the full series: the
// seed averages use the first `period` changes, each later change is
// blended as (prior*(period-1) + current) / period.
func wilderRSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// sma averages the most recent `period` closes.
func sma(closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period)
}

// trailingMeanVolume averages volume over up to `period` sessions that
// precede the most recent one, so the ratio compares today against its
// own history rather than against itself.
func trailingMeanVolume(bars []models.Bar, period int) float64 {
	n := len(bars)
	window := period
	if n-1 < window {
		window = n - 1
	}
	if window <= 0 {
		return 0
	}
	sum := 0.0
	for i := n - 1 - window; i < n-1; i++ {
		sum += float64(bars[i].Volume)
	}
	return sum / float64(window)
}

func (c *Calculator) trend(closes []float64) models.Trend {
	lb := c.params.TrendLookback
	n := len(closes)
	if n < lb+1 {
		return models.TrendNeutral
	}
	start := closes[n-1-lb]
	if start == 0 {
		return models.TrendNeutral
	}
	changePct := (closes[n-1] - start) / start * 100
	switch {
	case changePct > c.params.TrendBandPct:
		return models.TrendBullish
	case changePct < -c.params.TrendBandPct:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// returnStddev computes the population stddev of simple daily returns.
func returnStddev(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		rets = append(rets, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(rets) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	variance := 0.0
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rets))
	return math.Sqrt(variance)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
