package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// ErrNoHistory is returned when the source has no price series for a ticker.
var ErrNoHistory = errors.New("no price history")

// Provider fetches an ordered daily OHLCV series for a ticker.
type Provider interface {
	Fetch(ctx context.Context, ticker contracts.TickerID, lookback string) ([]contracts.PriceBar, error)
}

// YahooProvider fetches daily bars from the Yahoo Finance chart API.
type YahooProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewYahooProvider creates the price history provider.
func NewYahooProvider(httpClient *httputil.Client, log *logger.Logger) *YahooProvider {
	return &YahooProvider{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves daily bars for the given lookback window ("1y", "2y", ...).
// Bars with a missing close are dropped; the result is ordered oldest first.
func (p *YahooProvider) Fetch(ctx context.Context, ticker contracts.TickerID, lookback string) ([]contracts.PriceBar, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", p.baseURL, ticker, lookback)

	body, err := p.httpClient.GetBody(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", ticker, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched price history")
	return bars, nil
}

func parseChart(body []byte) ([]contracts.PriceBar, error) {
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart error %s: %w", parsed.Chart.Error.Code, ErrNoHistory)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoHistory
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := contracts.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, ErrNoHistory
	}
	return bars, nil
}
