package provider

import (
	"context"
	"fmt"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/domain/repository"
	"CedearScan/internal/service/ratelimit"
	xhttp "CedearScan/pkg/http"
	xlogger "CedearScan/pkg/logger"
)

// Yahoo serves daily bars and fundamentals from the public Yahoo Finance
// endpoints (v8 chart, v10 quoteSummary). One instance is shared across
// the worker pool; the embedded limiter keeps the request rate below
// Yahoo's informal edge limits.
type Yahoo struct {
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	logger  *xlogger.Logger

	baseURL    string
	perTicker  time.Duration
	burst      float64
	refillRate float64
}

// Option configures the Yahoo provider.
type Option func(*Yahoo)

// WithBaseURL overrides the API host, used by tests to point at a stub.
func WithBaseURL(u string) Option {
	return func(y *Yahoo) { y.baseURL = u }
}

// WithPerTickerTimeout bounds each ticker fetch independently of the
// whole-run deadline.
func WithPerTickerTimeout(d time.Duration) Option {
	return func(y *Yahoo) { y.perTicker = d }
}

// WithRate sets the token bucket shape (burst capacity, refill per
// second) applied across all outbound requests.
func WithRate(burst, refillPerSec float64) Option {
	return func(y *Yahoo) { y.burst = burst; y.refillRate = refillPerSec }
}

// NewYahoo builds the provider over the shared HTTP client.
func NewYahoo(client *xhttp.Client, limiter *ratelimit.Limiter, logger *xlogger.Logger, opts ...Option) *Yahoo {
	y := &Yahoo{
		client:     client,
		limiter:    limiter,
		logger:     logger,
		baseURL:    "https://query1.finance.yahoo.com",
		perTicker:  10 * time.Second,
		burst:      5,
		refillRate: 2,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Browser-ish headers; Yahoo's edge rejects bare Go user agents.
func yahooHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Accept":          "application/json, text/javascript, */*; q=0.01",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func (y *Yahoo) wait(ctx context.Context) error {
	for !y.limiter.Allow("yahoo", y.burst, y.refillRate) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries returns up to lookbackSessions completed daily bars in
// chronological order. Bars with a null close (halts, partial sessions)
// are dropped. Any per-ticker failure maps to ErrDataUnavailable so
// callers can apply uniform skip handling.
func (y *Yahoo) FetchSeries(ctx context.Context, ticker string, lookbackSessions int) (*models.PriceSeries, error) {
	if err := y.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrDataUnavailable, ticker, err)
	}

	ctx, cancel := context.WithTimeout(ctx, y.perTicker)
	defer cancel()

	// Calendar days over-cover trading sessions; 3mo covers the 60-day
	// default with margin.
	var resp chartResponse
	err := y.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/v8/finance/chart/%s", y.baseURL, ticker),
		Headers: yahooHeaders(),
		QueryParams: map[string][]string{
			"range":    {"3mo"},
			"interval": {"1d"},
			"events":   {"div,splits"},
		},
	}, &resp)
	if err != nil {
		y.logger.Warn("chart fetch failed", xlogger.Error(err), xlogger.String("ticker", ticker))
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrDataUnavailable, ticker, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", repository.ErrDataUnavailable, ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: empty chart result", repository.ErrDataUnavailable, ticker)
	}

	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == 0 {
			continue
		}
		bar := models.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: q.Close[i],
		}
		if i < len(q.Open) {
			bar.Open = q.Open[i]
		}
		if i < len(q.High) {
			bar.High = q.High[i]
		}
		if i < len(q.Low) {
			bar.Low = q.Low[i]
		}
		if i < len(q.Volume) {
			bar.Volume = q.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no usable bars", repository.ErrDataUnavailable, ticker)
	}
	if lookbackSessions > 0 && len(bars) > lookbackSessions {
		bars = bars[len(bars)-lookbackSessions:]
	}

	return &models.PriceSeries{Ticker: ticker, Bars: bars}, nil
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail *struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
				Beta          rawValue `json:"beta"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				DebtToEquity   rawValue `json:"debtToEquity"`
			} `json:"financialData"`
			AssetProfile *struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals returns the valuation snapshot for one ticker. A
// field absent upstream stays nil in the snapshot; only a whole-request
// failure is an error.
func (y *Yahoo) FetchFundamentals(ctx context.Context, ticker string) (*models.FundamentalsSnapshot, error) {
	if err := y.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrDataUnavailable, ticker, err)
	}

	ctx, cancel := context.WithTimeout(ctx, y.perTicker)
	defer cancel()

	var resp quoteSummaryResponse
	err := y.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/v10/finance/quoteSummary/%s", y.baseURL, ticker),
		Headers: yahooHeaders(),
		QueryParams: map[string][]string{
			"modules": {"summaryDetail,defaultKeyStatistics,financialData,assetProfile"},
		},
	}, &resp)
	if err != nil {
		y.logger.Warn("fundamentals fetch failed", xlogger.Error(err), xlogger.String("ticker", ticker))
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrDataUnavailable, ticker, err)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s: empty quote summary", repository.ErrDataUnavailable, ticker)
	}

	r := resp.QuoteSummary.Result[0]
	snap := &models.FundamentalsSnapshot{Ticker: ticker}
	if r.SummaryDetail != nil {
		snap.PERatio = r.SummaryDetail.TrailingPE.Raw
		snap.DividendYield = r.SummaryDetail.DividendYield.Raw
		snap.Beta = r.SummaryDetail.Beta.Raw
	}
	if r.DefaultKeyStatistics != nil {
		snap.PriceToBook = r.DefaultKeyStatistics.PriceToBook.Raw
	}
	if r.FinancialData != nil {
		snap.ROE = r.FinancialData.ReturnOnEquity.Raw
		snap.DebtToEquity = r.FinancialData.DebtToEquity.Raw
	}
	if r.AssetProfile != nil {
		snap.Sector = r.AssetProfile.Sector
	}
	return snap, nil
}
