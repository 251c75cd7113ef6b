package quote

import (
	"context"
	"fmt"
	"sort"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/logger"
	"github.com/mlefloch/stockscout/pkg/redisutil"
)

// maxSpread is the relative (max-min)/max spread above which the averaged
// consensus is distrusted in favor of the primary provider.
const maxSpread = 0.05

// outlierDeviation is the relative deviation from the group median above
// which a quote is discarded before averaging.
const outlierDeviation = 0.50

// Resolver reconciles quotes from several unreliable providers into one
// consensus price. Provider order matters: the first provider is the primary
// source trusted when the others disagree.
type Resolver struct {
	providers []Provider
	bounds    config.QuoteConfig
	cache     *redisutil.Cache
	logger    *logger.Logger
}

// NewResolver creates a consensus resolver over an ordered provider list.
// cache may be nil.
func NewResolver(providers []Provider, bounds config.QuoteConfig, cache *redisutil.Cache, log *logger.Logger) *Resolver {
	return &Resolver{
		providers: providers,
		bounds:    bounds,
		cache:     cache,
		logger:    log,
	}
}

// Resolve queries every provider for the ticker and reduces the accepted
// quotes to a single consensus price. Individual provider failures are
// logged and skipped. Returns ErrNoQuote when no provider produced a quote
// inside the configured bounds.
func (r *Resolver) Resolve(ctx context.Context, ticker contracts.TickerID) (contracts.ConsensusPrice, error) {
	if r.cache != nil {
		var cached contracts.ConsensusPrice
		hit, err := r.cache.Get(ctx, cacheKey(ticker), &cached)
		if err != nil {
			r.logger.WithError(err).Warn("Quote cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	var accepted []contracts.Quote
	var checked []string

	for _, provider := range r.providers {
		q, err := provider.Fetch(ctx, ticker)
		if err != nil {
			r.logger.WithFields(map[string]interface{}{
				"ticker":   ticker,
				"provider": provider.Name(),
			}).WithError(err).Debug("Provider unavailable")
			continue
		}
		if !r.valid(q) {
			r.logger.WithFields(map[string]interface{}{
				"ticker":   ticker,
				"provider": provider.Name(),
				"value":    q.Value,
			}).Debug("Quote outside accepted bounds")
			continue
		}
		accepted = append(accepted, q)
		checked = append(checked, provider.Name())
	}

	if len(accepted) == 0 {
		return contracts.ConsensusPrice{}, fmt.Errorf("resolve %s: %w", ticker, ErrNoQuote)
	}

	result := r.reduce(accepted, checked)

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey(ticker), result, redisutil.TTLQuote); err != nil {
			r.logger.WithError(err).Warn("Quote cache write failed")
		}
	}
	return result, nil
}

func (r *Resolver) valid(q contracts.Quote) bool {
	return q.Value > r.bounds.MinPrice && q.Value < r.bounds.MaxPrice
}

// reduce implements the consensus reduction over already-accepted quotes.
func (r *Resolver) reduce(accepted []contracts.Quote, checked []string) contracts.ConsensusPrice {
	if len(accepted) == 1 {
		q := accepted[0]
		return contracts.ConsensusPrice{
			Value:          q.Value,
			Currency:       q.Currency,
			Source:         q.Source,
			SourcesChecked: checked,
		}
	}

	group, currency := dominantCurrencyGroup(accepted)
	survivors := dropOutliers(group)

	sum := 0.0
	minV, maxV := survivors[0].Value, survivors[0].Value
	for _, q := range survivors {
		sum += q.Value
		if q.Value < minV {
			minV = q.Value
		}
		if q.Value > maxV {
			maxV = q.Value
		}
	}
	mean := sum / float64(len(survivors))

	// A wide spread among the survivors means at least one source is off in
	// a way the outlier filter could not attribute. Fall back to the primary
	// provider's quote when it produced one.
	if maxV > 0 && (maxV-minV)/maxV > maxSpread {
		primary := r.providers[0].Name()
		for _, q := range accepted {
			if q.Source == primary {
				return contracts.ConsensusPrice{
					Value:          q.Value,
					Currency:       q.Currency,
					Source:         q.Source,
					SourcesChecked: checked,
				}
			}
		}
	}

	return contracts.ConsensusPrice{
		Value:          mean,
		Currency:       currency,
		Source:         "consensus",
		SourcesChecked: checked,
	}
}

// dominantCurrencyGroup returns the quotes of the most frequent currency.
// Ties go to the currency seen first in provider order.
func dominantCurrencyGroup(quotes []contracts.Quote) ([]contracts.Quote, string) {
	groups := make(map[string][]contracts.Quote)
	var order []string
	for _, q := range quotes {
		if _, ok := groups[q.Currency]; !ok {
			order = append(order, q.Currency)
		}
		groups[q.Currency] = append(groups[q.Currency], q)
	}

	best := order[0]
	for _, c := range order[1:] {
		if len(groups[c]) > len(groups[best]) {
			best = c
		}
	}
	return groups[best], best
}

// dropOutliers removes quotes whose deviation from the group median exceeds
// half the median. Never returns an empty slice: the median itself always
// survives its own filter.
func dropOutliers(group []contracts.Quote) []contracts.Quote {
	if len(group) < 2 {
		return group
	}

	values := make([]float64, len(group))
	for i, q := range group {
		values[i] = q.Value
	}
	sort.Float64s(values)

	var median float64
	mid := len(values) / 2
	if len(values)%2 == 0 {
		median = (values[mid-1] + values[mid]) / 2
	} else {
		median = values[mid]
	}

	survivors := group[:0:0]
	for _, q := range group {
		dev := q.Value - median
		if dev < 0 {
			dev = -dev
		}
		if dev <= outlierDeviation*median {
			survivors = append(survivors, q)
		}
	}
	if len(survivors) == 0 {
		return group
	}
	return survivors
}

func cacheKey(ticker contracts.TickerID) string {
	return "quote:" + string(ticker)
}
