package screening

import (
	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/fundamentals"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// relaxedGrowthFactor scales the revenue-growth minimum for the secondary
// acceptance path: near-threshold growth is acceptable when margins and ROE
// are both strong.
const relaxedGrowthFactor = 0.7

// Screener applies the fundamental accept/reject rules to one snapshot at a
// time. Thresholds are fixed at construction; a run never mutates them.
type Screener struct {
	thresholds config.Thresholds
	logger     *logger.Logger
}

// NewScreener creates a screener with the given thresholds.
func NewScreener(thresholds config.Thresholds, log *logger.Logger) *Screener {
	return &Screener{
		thresholds: thresholds,
		logger:     log,
	}
}

// Screen evaluates a batch of company records and returns the candidates
// that pass, preserving input order. Per-reason rejection counts are logged.
func (s *Screener) Screen(infos []fundamentals.CompanyInfo) []contracts.ScreenedCandidate {
	passed := make([]contracts.ScreenedCandidate, 0, len(infos))
	filtered := make(map[string]int)

	for _, info := range infos {
		reason := s.checkConditions(info.Snapshot)
		if reason != "" {
			filtered[reason]++
			continue
		}
		passed = append(passed, contracts.ScreenedCandidate{
			Ticker:   info.Ticker,
			Name:     info.Name,
			Sector:   info.Sector,
			Price:    info.Price,
			Currency: info.Currency,
			Fund:     info.Snapshot,
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(infos),
		"passed":       len(passed),
		"filtered_out": len(infos) - len(passed),
		"filters":      filtered,
	}).Info("Screening completed")

	return passed
}

// Accept reports whether a single snapshot passes every rule.
func (s *Screener) Accept(snap contracts.FundamentalSnapshot) bool {
	return s.checkConditions(snap) == ""
}

// checkConditions evaluates the acceptance rules.
// Returns empty string if passed, otherwise returns filter name.
//
// Unknown growth and profitability fields count as zero; unknown PE and PEG
// are a neutral pass for their band checks. A known market cap below the
// floor rejects unconditionally.
func (s *Screener) checkConditions(snap contracts.FundamentalSnapshot) string {
	t := s.thresholds

	revenueGrowth := contracts.OrZero(snap.RevenueGrowth)
	roe := contracts.OrZero(snap.ROE)
	profitMargin := contracts.OrZero(snap.ProfitMargin)

	hasRevenueGrowth := revenueGrowth >= t.MinRevenueGrowth
	hasSolidFundamentals := profitMargin >= t.MinProfitMargin && roe >= t.MinROE

	peOK := snap.PE == nil || (t.MinPE < *snap.PE && *snap.PE < t.MaxPE)
	pegOK := snap.PEG == nil || (t.MinPEG < *snap.PEG && *snap.PEG < t.MaxPEG)

	// Primary path: real growth plus either solid fundamentals or a sane
	// valuation. Secondary path: growth a bit under the minimum is fine
	// when margins and ROE both clear their bars and PE is not stretched.
	switch {
	case hasRevenueGrowth && (hasSolidFundamentals || (peOK && pegOK)):
	case revenueGrowth >= t.MinRevenueGrowth*relaxedGrowthFactor && hasSolidFundamentals && peOK:
	default:
		return "growth_fundamentals"
	}

	// Hard size floor, independent of the paths above. Unknown market cap
	// does not reject.
	if snap.MarketCap != nil && *snap.MarketCap < t.MinMarketCap {
		return "market_cap"
	}

	return ""
}
