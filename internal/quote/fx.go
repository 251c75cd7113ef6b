package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// fallbackUSDToEUR is used when the FX fetch fails.
const fallbackUSDToEUR = 0.92

// fxRateTTL bounds how long a fetched rate is reused. A single scan prices
// all its profiles with one rate; a long-running daemon refreshes on the
// first conversion after expiry, so each daily scan gets a fresh rate and a
// failed fetch never pins the fallback for good.
const fxRateTTL = time.Hour

// FXConverter converts USD prices into EUR using a cached rate. Safe for
// concurrent use.
type FXConverter struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
	ttl       time.Duration
}

// NewFXConverter creates a USD to EUR converter.
func NewFXConverter(httpClient *httputil.Client, log *logger.Logger) *FXConverter {
	return &FXConverter{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://query1.finance.yahoo.com",
		ttl:        fxRateTTL,
	}
}

// Rate returns the USD to EUR rate, fetching it when the cached value is
// missing or stale. A failed fetch quietly degrades to the fallback rate
// until the next refresh.
func (c *FXConverter) Rate(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.rate
	}

	rate, err := c.fetchRate(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("FX rate fetch failed, using fallback")
		rate = fallbackUSDToEUR
	}
	c.rate = rate
	c.fetchedAt = time.Now()
	return c.rate
}

// ToEUR converts a USD amount, rounded to cents.
func (c *FXConverter) ToEUR(ctx context.Context, usd float64) float64 {
	converted := usd * c.Rate(ctx)
	return float64(int64(converted*100+0.5)) / 100
}

func (c *FXConverter) fetchRate(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/EURUSD=X?interval=1d&range=1d", c.baseURL)

	body, err := c.httpClient.GetBody(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetch EURUSD rate: %w", err)
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse EURUSD response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, fmt.Errorf("empty EURUSD response")
	}

	eurUSD := parsed.Chart.Result[0].Meta.RegularMarketPrice
	if eurUSD <= 0 {
		eurUSD = parsed.Chart.Result[0].Meta.PreviousClose
	}
	if eurUSD <= 0 {
		return 0, fmt.Errorf("invalid EURUSD rate %f", eurUSD)
	}

	// The quoted pair is EUR priced in USD; invert it for USD to EUR.
	rate := 1 / eurUSD
	c.logger.WithField("usd_to_eur", rate).Info("FX rate fetched")
	return rate, nil
}
