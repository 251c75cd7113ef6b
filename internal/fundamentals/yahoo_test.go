package fundamentals

import (
	"errors"
	"testing"

	"github.com/mlefloch/stockscout/internal/contracts"
)

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "Apple Inc.",
        "currency": "USD",
        "regularMarketPrice": {"raw": 212.5, "fmt": "212.50"}
      },
      "summaryProfile": {"sector": "Technology"},
      "financialData": {
        "revenueGrowth": {"raw": 0.08, "fmt": "8.00%"},
        "returnOnEquity": {"raw": 1.47, "fmt": "147.00%"},
        "profitMargins": {"raw": 0.26, "fmt": "26.00%"},
        "debtToEquity": {},
        "freeCashflow": {"raw": 97000000000}
      },
      "defaultKeyStatistics": {
        "pegRatio": {"raw": 2.1},
        "trailingEps": {"raw": 6.42}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 33.1},
        "marketCap": {"raw": 3200000000000}
      }
    }],
    "error": null
  }
}`

func TestParseQuoteSummary(t *testing.T) {
	info, err := parseQuoteSummary("AAPL", []byte(summaryFixture))
	if err != nil {
		t.Fatalf("parseQuoteSummary() error = %v", err)
	}

	if info.Name != "Apple Inc." || info.Sector != "Technology" {
		t.Errorf("identity = %s/%s, want Apple Inc./Technology", info.Name, info.Sector)
	}
	if info.Price != 212.5 || info.Currency != "USD" {
		t.Errorf("price = %f %s, want 212.5 USD", info.Price, info.Currency)
	}

	snap := info.Snapshot
	if contracts.OrZero(snap.RevenueGrowth) != 0.08 {
		t.Errorf("RevenueGrowth = %v, want 0.08", snap.RevenueGrowth)
	}
	if snap.PE == nil || *snap.PE != 33.1 {
		t.Errorf("PE = %v, want 33.1", snap.PE)
	}
	if snap.MarketCap == nil || *snap.MarketCap != 3.2e12 {
		t.Errorf("MarketCap = %v, want 3.2e12", snap.MarketCap)
	}
}

func TestParseQuoteSummaryEmptyValueStaysUnknown(t *testing.T) {
	info, err := parseQuoteSummary("AAPL", []byte(summaryFixture))
	if err != nil {
		t.Fatalf("parseQuoteSummary() error = %v", err)
	}

	// debtToEquity came back as an empty object: unknown, not zero.
	if info.Snapshot.DebtToEquity != nil {
		t.Errorf("DebtToEquity = %v, want nil for an empty value", *info.Snapshot.DebtToEquity)
	}
	// earningsGrowth was absent entirely.
	if info.Snapshot.EarningsGrowth != nil {
		t.Errorf("EarningsGrowth = %v, want nil for an absent value", *info.Snapshot.EarningsGrowth)
	}
}

func TestParseQuoteSummaryNoResult(t *testing.T) {
	body := `{"quoteSummary": {"result": [], "error": null}}`
	_, err := parseQuoteSummary("ZZZZ", []byte(body))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("empty result must map to ErrNoData, got %v", err)
	}
}

func TestParseQuoteSummaryAPIError(t *testing.T) {
	body := `{"quoteSummary": {"result": null, "error": {"code": "Not Found"}}}`
	_, err := parseQuoteSummary("ZZZZ", []byte(body))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("API error must map to ErrNoData, got %v", err)
	}
}
