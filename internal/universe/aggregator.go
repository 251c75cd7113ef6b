package universe

import (
	"context"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// Aggregator assembles the scan universe from named market segments.
// Remote retrieval failures degrade to the curated fallback lists; the
// aggregator itself never fails.
type Aggregator struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewAggregator creates a new universe aggregator.
func NewAggregator(httpClient *httputil.Client, log *logger.Logger) *Aggregator {
	return &Aggregator{
		httpClient: httpClient,
		logger:     log,
	}
}

// FetchSegment returns the membership of one segment. The remote table is
// attempted first where one exists; any failure (network, parse, empty
// result) falls back to the curated list for that segment.
func (a *Aggregator) FetchSegment(ctx context.Context, segment contracts.Segment) []contracts.TickerID {
	src, hasRemote := remoteSources[segment]
	if !hasRemote {
		tickers := Fallback(segment)
		a.logger.WithFields(map[string]interface{}{
			"segment": segment,
			"count":   len(tickers),
			"source":  "curated",
		}).Debug("Fetched segment")
		return tickers
	}

	tickers, err := a.fetchRemote(ctx, src)
	if err != nil {
		a.logger.WithError(err).WithField("segment", segment).Warn("Remote fetch failed, using curated list")
		return Fallback(segment)
	}

	a.logger.WithFields(map[string]interface{}{
		"segment": segment,
		"count":   len(tickers),
		"source":  "remote",
	}).Debug("Fetched segment")
	return tickers
}

// Aggregate unions the given segments into a deduplicated universe.
// Duplicates are identified by exact identifier equality. First-seen order
// is kept for determinism, but callers must not rely on any ordering.
func (a *Aggregator) Aggregate(ctx context.Context, segments []contracts.Segment) []contracts.TickerID {
	seen := make(map[contracts.TickerID]struct{})
	var universe []contracts.TickerID

	for _, segment := range segments {
		for _, ticker := range a.FetchSegment(ctx, segment) {
			if _, dup := seen[ticker]; dup {
				continue
			}
			seen[ticker] = struct{}{}
			universe = append(universe, ticker)
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"segments": len(segments),
		"tickers":  len(universe),
	}).Info("Universe aggregated")

	return universe
}

// Truncate caps a universe at the caller's scan limit. A non-positive
// limit means no cap.
func Truncate(universe []contracts.TickerID, limit int) []contracts.TickerID {
	if limit <= 0 || len(universe) <= limit {
		return universe
	}
	return universe[:limit]
}
