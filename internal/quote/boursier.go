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

// BoursierProvider scrapes Euronext quote pages. It only knows Paris-listed
// tickers (".PA" suffix) and short unsuffixed symbols, and reports EUR.
type BoursierProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewBoursierProvider creates the Euronext page scraper.
func NewBoursierProvider(httpClient *httputil.Client, log *logger.Logger) *BoursierProvider {
	return &BoursierProvider{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://www.zonebourse.com",
	}
}

func (p *BoursierProvider) Name() string { return "boursier" }

// Covers reports whether this provider can quote the given ticker at all.
func (p *BoursierProvider) Covers(ticker contracts.TickerID) bool {
	s := string(ticker)
	return strings.HasSuffix(s, ".PA") || (len(s) <= 6 && !strings.Contains(s, "."))
}

func (p *BoursierProvider) Fetch(ctx context.Context, ticker contracts.TickerID) (contracts.Quote, error) {
	if !p.Covers(ticker) {
		return contracts.Quote{}, ErrNoQuote
	}

	symbol := strings.ToUpper(strings.TrimSuffix(string(ticker), ".PA"))
	url := fmt.Sprintf("%s/cours/action/%s/", p.baseURL, symbol)

	body, err := p.httpClient.GetBody(ctx, url)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("boursier request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("parse boursier page: %w", err)
	}

	sel := doc.Find("span.cotation").First()
	if sel.Length() == 0 {
		sel = doc.Find("div.price").First()
	}
	if sel.Length() == 0 {
		return contracts.Quote{}, ErrNoQuote
	}

	price, err := parseEuroPrice(sel.Text())
	if err != nil {
		return contracts.Quote{}, err
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"price":  price,
	}).Debug("Fetched quote from Boursier")

	return contracts.Quote{Value: price, Currency: "EUR", Source: p.Name()}, nil
}

// parseEuroPrice converts a French-formatted price string ("1 234,56 €") to
// a float.
func parseEuroPrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "€", "")
	text = strings.ReplaceAll(text, ",", ".")

	price, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	if price <= 0 {
		return 0, ErrNoQuote
	}
	return price, nil
}
