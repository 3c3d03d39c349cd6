package indicators

import (
	"errors"
	"testing"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/domain/repository"
)

func makeSeries(t *testing.T, closes []float64, volumes []int64) *models.PriceSeries {
	t.Helper()
	if len(closes) != len(volumes) {
		t.Fatalf("closes and volumes must align")
	}
	bars := make([]models.Bar, len(closes))
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		bars[i] = models.Bar{Date: day.AddDate(0, 0, i), Close: closes[i], Volume: volumes[i]}
	}
	return &models.PriceSeries{Ticker: "TEST", Bars: bars}
}

func flatSeries(t *testing.T, n int, price float64, volume int64) *models.PriceSeries {
	t.Helper()
	closes := make([]float64, n)
	volumes := make([]int64, n)
	for i := range closes {
		closes[i] = price
		volumes[i] = volume
	}
	return makeSeries(t, closes, volumes)
}

func TestComputeInsufficientData(t *testing.T) {
	calc := New(DefaultParams())
	_, err := calc.Compute(flatSeries(t, 20, 100, 1_000_000))
	if !errors.Is(err, repository.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeMinimumSessions(t *testing.T) {
	calc := New(DefaultParams())
	set, err := calc.Compute(flatSeries(t, 30, 100, 1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.VolumeRatioUndefined {
		t.Fatalf("volume ratio should be defined with nonzero trailing volume")
	}
	if set.VolumeRatio != 1.0 {
		t.Fatalf("expected volume ratio 1.0, got %v", set.VolumeRatio)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 40)
	volumes := make([]int64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1_000_000
	}
	calc := New(DefaultParams())
	set, err := calc.Compute(makeSeries(t, closes, volumes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.RSI14 != 100 {
		t.Fatalf("expected RSI 100 with zero average loss, got %v", set.RSI14)
	}
}

func TestRSIWithinBounds(t *testing.T) {
	closes := make([]float64, 60)
	volumes := make([]int64, 60)
	for i := range closes {
		// alternating up/down walk
		if i%2 == 0 {
			closes[i] = 100 + float64(i)*0.3
		} else {
			closes[i] = 99 - float64(i)*0.1
		}
		volumes[i] = 1_000_000
	}
	calc := New(DefaultParams())
	set, err := calc.Compute(makeSeries(t, closes, volumes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.RSI14 < 0 || set.RSI14 > 100 {
		t.Fatalf("RSI out of bounds: %v", set.RSI14)
	}
}

func TestDailyChangePct(t *testing.T) {
	s := flatSeries(t, 40, 100, 1_000_000)
	s.Bars[len(s.Bars)-1].Close = 102

	calc := New(DefaultParams())
	set, err := calc.Compute(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.DailyChangePct != 2.0 {
		t.Fatalf("expected daily change 2.0, got %v", set.DailyChangePct)
	}
	if set.CurrentPrice != 102 {
		t.Fatalf("expected current price 102, got %v", set.CurrentPrice)
	}
}

func TestVolumeRatioSpike(t *testing.T) {
	s := flatSeries(t, 40, 100, 1_000_000)
	s.Bars[len(s.Bars)-1].Volume = 2_000_000

	calc := New(DefaultParams())
	set, err := calc.Compute(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.VolumeRatio != 2.0 {
		t.Fatalf("expected volume ratio 2.0, got %v", set.VolumeRatio)
	}
}

func TestVolumeRatioUndefinedOnZeroHistory(t *testing.T) {
	s := flatSeries(t, 40, 100, 0)
	s.Bars[len(s.Bars)-1].Volume = 500_000

	calc := New(DefaultParams())
	set, err := calc.Compute(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.VolumeRatioUndefined {
		t.Fatalf("expected undefined volume ratio")
	}
	if set.VolumeRatio != 0 {
		t.Fatalf("undefined ratio must be reported as 0, got %v", set.VolumeRatio)
	}
}

func TestTrendClassification(t *testing.T) {
	cases := []struct {
		name     string
		lastMove float64 // pct change applied over the final 5 sessions
		want     models.Trend
	}{
		{"bullish above band", 2.0, models.TrendBullish},
		{"bearish below band", -2.0, models.TrendBearish},
		{"flat inside band", 0.5, models.TrendNeutral},
		{"negative inside band", -0.9, models.TrendNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := flatSeries(t, 40, 100, 1_000_000)
			n := len(s.Bars)
			end := 100 * (1 + tc.lastMove/100)
			step := (end - 100) / 5
			for i := 0; i < 5; i++ {
				s.Bars[n-5+i].Close = 100 + step*float64(i+1)
			}

			calc := New(DefaultParams())
			set, err := calc.Compute(s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.Trend != tc.want {
				t.Fatalf("expected trend %s, got %s", tc.want, set.Trend)
			}
		})
	}
}

func TestSMAAndAboveFlag(t *testing.T) {
	s := flatSeries(t, 40, 100, 1_000_000)
	calc := New(DefaultParams())
	set, err := calc.Compute(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.SMA20 != 100 {
		t.Fatalf("expected SMA20 100, got %v", set.SMA20)
	}
	if set.AboveSMA {
		t.Fatalf("price equal to SMA must not count as above")
	}

	s.Bars[len(s.Bars)-1].Close = 110
	set, err = calc.Compute(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.AboveSMA {
		t.Fatalf("expected above-SMA with price 110")
	}
}

func TestVolatilityZeroOnFlatSeries(t *testing.T) {
	calc := New(DefaultParams())
	set, err := calc.Compute(flatSeries(t, 40, 100, 1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.VolatilityPct != 0 {
		t.Fatalf("flat series must have zero volatility, got %v", set.VolatilityPct)
	}
}
