package scoring

import (
	"math"
	"sort"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// Component weights. The four components sum to 100.
const (
	weightRevenue      = 40.0
	weightEarnings     = 20.0
	weightFundamentals = 25.0
	weightValuation    = 15.0
)

// band is one step of a tiered score table, evaluated top-down: the first
// band whose minimum the value reaches wins.
type band struct {
	min    float64
	points float64
}

var revenueBands = []band{
	{0.20, weightRevenue},
	{0.15, 35},
	{0.12, 30},
}

var earningsBands = []band{
	{0.20, weightEarnings},
	{0.15, 17},
	{0.10, 14},
}

// fundamentalsBands pair an ROE floor with a margin floor; both must hold.
var fundamentalsBands = []struct {
	minROE    float64
	minMargin float64
	points    float64
}{
	{0.20, 0.15, weightFundamentals},
	{0.15, 0.10, 20},
	{0.12, 0.08, 15},
}

// valuationBands pair a PE ceiling with a PEG ceiling; both must hold.
var valuationBands = []struct {
	maxPE  float64
	maxPEG float64
	points float64
}{
	{20, 1.5, weightValuation},
	{25, 2.0, 12},
	{30, 2.5, 8},
}

// Scorer converts screened candidates into ranked, scored candidates.
type Scorer struct {
	logger *logger.Logger
}

// NewScorer creates a scorer.
func NewScorer(log *logger.Logger) *Scorer {
	return &Scorer{logger: log}
}

// Score computes the composite score for one candidate. Pure: the same
// snapshot always yields the same score, and the result is in [0,100].
func (s *Scorer) Score(c contracts.ScreenedCandidate) float64 {
	snap := c.Fund

	score := scoreRevenue(contracts.OrZero(snap.RevenueGrowth))
	score += scoreEarnings(contracts.OrZero(snap.EarningsGrowth))
	score += scoreFundamentals(contracts.OrZero(snap.ROE), contracts.OrZero(snap.ProfitMargin))
	score += scoreValuation(snap.PE, snap.PEG)

	score = math.Round(score*100) / 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Rank scores every candidate, sorts descending (stable, so ties keep their
// input order) and keeps the top n. Candidates beyond n are dropped.
func (s *Scorer) Rank(candidates []contracts.ScreenedCandidate, topN int) []contracts.ScoredCandidate {
	scored := make([]contracts.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, contracts.ScoredCandidate{
			ScreenedCandidate: c,
			Score:             s.Score(c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}

	s.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"kept":       len(scored),
	}).Info("Ranking completed")

	return scored
}

func scoreRevenue(growth float64) float64 {
	for _, b := range revenueBands {
		if growth >= b.min {
			return b.points
		}
	}
	return growth * 200
}

func scoreEarnings(growth float64) float64 {
	for _, b := range earningsBands {
		if growth >= b.min {
			return b.points
		}
	}
	return growth * 100
}

func scoreFundamentals(roe, margin float64) float64 {
	for _, b := range fundamentalsBands {
		if roe >= b.minROE && margin >= b.minMargin {
			return b.points
		}
	}
	return (roe*100 + margin*100) / 2
}

func scoreValuation(pe, peg *float64) float64 {
	if pe != nil && peg != nil {
		for _, b := range valuationBands {
			if *pe < b.maxPE && *peg < b.maxPEG {
				return b.points
			}
		}
		return 5
	}
	if pe != nil && *pe < 25 {
		return 10
	}
	return 5
}
