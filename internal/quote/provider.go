package quote

import (
	"context"
	"errors"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// ErrNoQuote is returned when a provider has no usable quote for a ticker.
var ErrNoQuote = errors.New("no quote available")

// Provider fetches a single price observation from one external source.
// Implementations must be safe to call for any ticker and must return
// ErrNoQuote (or any other error) rather than a zero-value quote when the
// source has nothing usable.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, ticker contracts.TickerID) (contracts.Quote, error)
}
