package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// YahooProvider is the primary quote source. It uses the chart API, which is
// structured JSON and far more stable than the quote pages.
type YahooProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewYahooProvider creates the Yahoo Finance quote provider.
func NewYahooProvider(httpClient *httputil.Client, log *logger.Logger) *YahooProvider {
	return &YahooProvider{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves the latest market price for a ticker. Prefers the regular
// market price and falls back to the previous close.
func (p *YahooProvider) Fetch(ctx context.Context, ticker contracts.TickerID) (contracts.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", p.baseURL, ticker)

	body, err := p.httpClient.GetBody(ctx, url)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("yahoo chart request failed: %w", err)
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.Quote{}, fmt.Errorf("parse yahoo chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return contracts.Quote{}, fmt.Errorf("yahoo chart error: %s", parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 {
		return contracts.Quote{}, ErrNoQuote
	}

	meta := parsed.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price <= 0 {
		price = meta.PreviousClose
	}
	if price <= 0 {
		return contracts.Quote{}, ErrNoQuote
	}

	currency := meta.Currency
	if currency == "" {
		currency = inferCurrency(ticker)
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"price":    price,
		"currency": currency,
	}).Debug("Fetched quote from Yahoo")

	return contracts.Quote{Value: price, Currency: currency, Source: p.Name()}, nil
}

// inferCurrency guesses the quote currency from an exchange suffix when the
// provider response carries none.
func inferCurrency(ticker contracts.TickerID) string {
	s := string(ticker)
	switch {
	case strings.HasSuffix(s, ".PA"), strings.HasSuffix(s, ".AS"), strings.HasSuffix(s, ".DE"), strings.HasSuffix(s, ".MC"), strings.HasSuffix(s, ".MI"):
		return "EUR"
	case strings.HasSuffix(s, ".L"):
		return "GBP"
	case strings.HasSuffix(s, ".SW"):
		return "CHF"
	case strings.HasSuffix(s, ".TO"):
		return "CAD"
	case strings.HasSuffix(s, ".T"):
		return "JPY"
	case strings.HasSuffix(s, ".HK"):
		return "HKD"
	default:
		return "USD"
	}
}
