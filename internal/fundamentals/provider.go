package fundamentals

import (
	"context"
	"errors"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// ErrNoData is returned when the provider has nothing usable for a ticker.
// Callers treat it as "skip this ticker", never as a batch failure.
var ErrNoData = errors.New("no fundamental data")

// CompanyInfo is the full fundamentals lookup result: identity fields for
// display plus the metric snapshot the screener evaluates.
type CompanyInfo struct {
	Ticker   contracts.TickerID            `json:"ticker"`
	Name     string                        `json:"name"`
	Sector   string                        `json:"sector"`
	Price    float64                       `json:"price"`
	Currency string                        `json:"currency"`
	Snapshot contracts.FundamentalSnapshot `json:"snapshot"`
}

// Provider looks up fundamental data by ticker.
type Provider interface {
	Fetch(ctx context.Context, ticker contracts.TickerID) (CompanyInfo, error)
}
