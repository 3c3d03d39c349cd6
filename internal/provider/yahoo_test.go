package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CedearScan/internal/domain/repository"
	"CedearScan/internal/service/ratelimit"
	xhttp "CedearScan/pkg/http"
	xlogger "CedearScan/pkg/logger"
)

func newTestYahoo(t *testing.T, handler http.HandlerFunc) (*Yahoo, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	y := NewYahoo(
		xhttp.NewClient(xhttp.WithTimeout(5*time.Second)),
		ratelimit.New(),
		logger,
		WithBaseURL(srv.URL),
		WithPerTickerTimeout(2*time.Second),
		WithRate(100, 100),
	)
	return y, srv
}

func chartBody(n int) string {
	ts := make([]string, n)
	closes := make([]string, n)
	volumes := make([]string, n)
	base := time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts[i] = fmt.Sprintf("%d", base.AddDate(0, 0, i).Unix())
		closes[i] = fmt.Sprintf("%.2f", 100+float64(i)*0.5)
		volumes[i] = "1000000"
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s],"volume":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(closes, ","), strings.Join(volumes, ","))
}

func TestFetchSeriesParsesChart(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("interval %q", r.URL.Query().Get("interval"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody(70))
	})

	series, err := y.FetchSeries(context.Background(), "AAPL", 60)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if series.Ticker != "AAPL" {
		t.Fatalf("ticker %q", series.Ticker)
	}
	if len(series.Bars) != 60 {
		t.Fatalf("expected truncation to 60 bars, got %d", len(series.Bars))
	}
	last := series.Bars[len(series.Bars)-1]
	if last.Close != 134.5 || last.Volume != 1000000 {
		t.Fatalf("unexpected last bar: %+v", last)
	}
	if !series.Bars[0].Date.Before(last.Date) {
		t.Fatalf("bars not in chronological order")
	}
}

func TestFetchSeriesDropsNullCloses(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1746100800,1746187200,1746273600],` +
		`"indicators":{"quote":[{"close":[100.0,0,102.0],"volume":[1,1,1]}]}}],"error":null}}`
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})

	series, err := y.FetchSeries(context.Background(), "KO", 60)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series.Bars) != 2 {
		t.Fatalf("zero-close bar should be dropped, got %d bars", len(series.Bars))
	}
}

func TestFetchSeriesMapsFailuresToDataUnavailable(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"http 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"upstream error payload", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}},
		{"empty result", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			y, _ := newTestYahoo(t, tc.h)
			_, err := y.FetchSeries(context.Background(), "BA", 60)
			if !errors.Is(err, repository.ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}

func TestFetchFundamentalsParsesQuoteSummary(t *testing.T) {
	body := `{"quoteSummary":{"result":[{
		"summaryDetail":{"trailingPE":{"raw":12.4},"dividendYield":{"raw":0.031},"beta":{"raw":0.62}},
		"defaultKeyStatistics":{"priceToBook":{"raw":2.1}},
		"financialData":{"returnOnEquity":{"raw":0.18},"debtToEquity":{"raw":85.2}},
		"assetProfile":{"sector":"Consumer Defensive"}
	}],"error":null}}`
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/KO") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})

	snap, err := y.FetchFundamentals(context.Background(), "KO")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.PERatio == nil || *snap.PERatio != 12.4 {
		t.Fatalf("pe %v", snap.PERatio)
	}
	if snap.DividendYield == nil || *snap.DividendYield != 0.031 {
		t.Fatalf("dividend yield %v", snap.DividendYield)
	}
	if snap.Beta == nil || *snap.Beta != 0.62 {
		t.Fatalf("beta %v", snap.Beta)
	}
	if snap.PriceToBook == nil || *snap.PriceToBook != 2.1 {
		t.Fatalf("p/b %v", snap.PriceToBook)
	}
	if snap.ROE == nil || *snap.ROE != 0.18 {
		t.Fatalf("roe %v", snap.ROE)
	}
	if snap.DebtToEquity == nil || *snap.DebtToEquity != 85.2 {
		t.Fatalf("d/e %v", snap.DebtToEquity)
	}
	if snap.Sector != "Consumer Defensive" {
		t.Fatalf("sector %q", snap.Sector)
	}
}

func TestFetchFundamentalsMissingModulesStayNil(t *testing.T) {
	body := `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology"}}],"error":null}}`
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})

	snap, err := y.FetchFundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.PERatio != nil || snap.Beta != nil || snap.ROE != nil {
		t.Fatalf("absent modules must stay nil: %+v", snap)
	}
	if snap.Sector != "Technology" {
		t.Fatalf("sector %q", snap.Sector)
	}
}

func TestFetchFundamentalsEmptyResult(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"quoteSummary":{"result":[],"error":null}}`)
	})

	_, err := y.FetchFundamentals(context.Background(), "ZZZZ")
	if !errors.Is(err, repository.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
