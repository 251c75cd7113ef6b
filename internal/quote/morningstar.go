package quote

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// MorningstarProvider scrapes Morningstar quote pages. European tickers go
// through the French portal, everything else through the US one.
type MorningstarProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	usBaseURL  string
	frBaseURL  string
}

// NewMorningstarProvider creates the Morningstar page scraper.
func NewMorningstarProvider(httpClient *httputil.Client, log *logger.Logger) *MorningstarProvider {
	return &MorningstarProvider{
		httpClient: httpClient,
		logger:     log,
		usBaseURL:  "https://www.morningstar.com",
		frBaseURL:  "https://www.morningstar.fr",
	}
}

func (p *MorningstarProvider) Name() string { return "morningstar" }

func (p *MorningstarProvider) Fetch(ctx context.Context, ticker contracts.TickerID) (contracts.Quote, error) {
	symbol := string(ticker)
	for _, suffix := range []string{".PA", ".AS", ".DE", ".L"} {
		symbol = strings.TrimSuffix(symbol, suffix)
	}

	var url string
	european := strings.HasSuffix(string(ticker), ".PA")
	if european {
		url = fmt.Sprintf("%s/fr/funds/snapshot/snapshot.aspx?id=%s", p.frBaseURL, symbol)
	} else {
		url = fmt.Sprintf("%s/stocks/xnas/%s/quote", p.usBaseURL, strings.ToLower(symbol))
	}

	body, err := p.httpClient.GetBody(ctx, url)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("morningstar request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("parse morningstar page: %w", err)
	}

	sel := doc.Find("span.price").First()
	if sel.Length() == 0 {
		sel = doc.Find("div.current-price").First()
	}
	if sel.Length() == 0 {
		return contracts.Quote{}, ErrNoQuote
	}

	raw := sel.Text()
	currency := "USD"
	if strings.Contains(raw, "€") {
		currency = "EUR"
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("parse price %q: %w", cleaned, err)
	}
	if price <= 0 {
		return contracts.Quote{}, ErrNoQuote
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"price":    price,
		"currency": currency,
	}).Debug("Fetched quote from Morningstar")

	return contracts.Quote{Value: price, Currency: currency, Source: p.Name()}, nil
}
