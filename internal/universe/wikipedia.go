package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// remoteSource describes one index constituent table.
type remoteSource struct {
	URL    string
	Column string // header of the symbol column

	// US symbols write class shares with a dot (BRK.B) that the quote
	// providers spell with a dash (BRK-B). European symbols keep their
	// dot-separated exchange suffix untouched.
	DotToDash bool
}

// Constituent tables maintained on Wikipedia. Segments without a usable
// remote table (emerging, asia-pacific, canada) are served from the curated
// lists directly.
var remoteSources = map[contracts.Segment]remoteSource{
	contracts.SegmentLargeCapUS: {
		URL:       "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
		Column:    "Symbol",
		DotToDash: true,
	},
	contracts.SegmentTechUS: {
		URL:       "https://en.wikipedia.org/wiki/NASDAQ-100",
		Column:    "Ticker",
		DotToDash: true,
	},
	contracts.SegmentBlueChipUS: {
		URL:       "https://en.wikipedia.org/wiki/Dow_Jones_Industrial_Average",
		Column:    "Symbol",
		DotToDash: true,
	},
	contracts.SegmentEurope: {
		URL:    "https://en.wikipedia.org/wiki/EURO_STOXX_600",
		Column: "Ticker",
	},
}

// fetchRemote downloads a constituent page and extracts the symbol column
// from the first table that carries it.
func (a *Aggregator) fetchRemote(ctx context.Context, src remoteSource) ([]contracts.TickerID, error) {
	body, err := a.httpClient.GetBody(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents page: %w", err)
	}

	tickers, err := parseConstituents(string(body), src)
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// parseConstituents extracts the symbol column from the first wikitable
// whose header row carries the expected column name.
func parseConstituents(html string, src remoteSource) ([]contracts.TickerID, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	var tickers []contracts.TickerID
	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := columnIndex(table, src.Column)
		if col < 0 {
			return true // not the constituents table, keep looking
		}

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= col {
				return // header row or malformed row
			}
			symbol := normalizeSymbol(cells.Eq(col).Text(), src.DotToDash)
			if symbol == "" {
				return
			}
			tickers = append(tickers, contracts.TickerID(symbol))
		})
		return false
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no symbols found in %s", src.URL)
	}
	return tickers, nil
}

// columnIndex finds the position of the named header cell, -1 if absent.
func columnIndex(table *goquery.Selection, name string) int {
	idx := -1
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		if strings.EqualFold(strings.TrimSpace(th.Text()), name) && idx < 0 {
			idx = i
		}
	})
	return idx
}

// normalizeSymbol trims a raw table cell and optionally maps class-share
// dots to the dash convention used by the quote providers.
func normalizeSymbol(raw string, dotToDash bool) string {
	symbol := strings.TrimSpace(raw)
	if symbol == "" || strings.EqualFold(symbol, "n/a") {
		return ""
	}
	// Footnote markers sneak into some cells
	if i := strings.IndexAny(symbol, "[("); i >= 0 {
		symbol = strings.TrimSpace(symbol[:i])
	}
	if dotToDash {
		symbol = strings.ReplaceAll(symbol, ".", "-")
	}
	return symbol
}
