package opinion

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlefloch/stockscout/internal/contracts"
)

// FallbackAdvisor is the built-in deterministic opinion generator, used when
// no external advisor is configured or the external one is unavailable. The
// same profile always produces the same text.
type FallbackAdvisor struct{}

// NewFallbackAdvisor creates the built-in advisor.
func NewFallbackAdvisor() *FallbackAdvisor {
	return &FallbackAdvisor{}
}

// Advise never fails.
func (a *FallbackAdvisor) Advise(ctx context.Context, p *contracts.TechnicalProfile) (Opinion, error) {
	verdict := classify(p)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s) — %s\n\n", p.Name, p.Ticker, p.Sector))

	b.WriteString("=== FUNDAMENTALS ===\n")
	writeGrowthSection(&b, p)
	writeProfitabilitySection(&b, p)
	writeValuationSection(&b, p)

	b.WriteString("\n=== TECHNICALS ===\n")
	writeTechnicalSection(&b, p)

	b.WriteString("\n=== VERDICT ===\n")
	writeVerdictSection(&b, p, verdict)

	return Opinion{Verdict: verdict, Text: b.String()}, nil
}

// classify mirrors the scorecard behind the verdict: growth, profitability,
// valuation, momentum and trend each contribute points, out of 8.
func classify(p *contracts.TechnicalProfile) Verdict {
	snap := p.Fund
	revGrowth := contracts.OrZero(snap.RevenueGrowth) * 100
	roe := contracts.OrZero(snap.ROE) * 100
	margin := contracts.OrZero(snap.ProfitMargin) * 100

	score := 0
	switch {
	case revGrowth >= 10:
		score += 2
	case revGrowth >= 5:
		score++
	}
	switch {
	case roe >= 15:
		score += 2
	case roe >= 10:
		score++
	}
	if margin >= 10 {
		score++
	}
	if snap.PE != nil && *snap.PE < 25 {
		score++
	}
	if p.RSI > 30 && p.RSI < 70 {
		score++
	}
	if p.Trend == contracts.TrendBullish {
		score++
	}

	switch {
	case score >= 6:
		return VerdictBuy
	case score >= 4:
		return VerdictWatch
	default:
		return VerdictNeutral
	}
}

func writeGrowthSection(b *strings.Builder, p *contracts.TechnicalProfile) {
	revGrowth := contracts.OrZero(p.Fund.RevenueGrowth) * 100
	earnGrowth := contracts.OrZero(p.Fund.EarningsGrowth) * 100

	var quality string
	switch {
	case revGrowth >= 15:
		quality = "excellent"
	case revGrowth >= 10:
		quality = "good"
	case revGrowth >= 5:
		quality = "moderate"
	default:
		quality = "weak"
	}
	fmt.Fprintf(b, "Growth: revenue growth of %.1f%% is %s; earnings growth %.1f%%.\n", revGrowth, quality, earnGrowth)
}

func writeProfitabilitySection(b *strings.Builder, p *contracts.TechnicalProfile) {
	roe := contracts.OrZero(p.Fund.ROE) * 100
	margin := contracts.OrZero(p.Fund.ProfitMargin) * 100

	var quality string
	switch {
	case roe >= 20 && margin >= 15:
		quality = "exceptional"
	case roe >= 15 && margin >= 10:
		quality = "solid"
	case roe >= 10 && margin >= 5:
		quality = "acceptable"
	default:
		quality = "needs improvement"
	}
	fmt.Fprintf(b, "Profitability: %s (ROE %.1f%%, margin %.1f%%).\n", quality, roe, margin)
}

func writeValuationSection(b *strings.Builder, p *contracts.TechnicalProfile) {
	pe := p.Fund.PE
	peg := p.Fund.PEG

	switch {
	case pe == nil:
		b.WriteString("Valuation: not available.\n")
	case *pe < 15:
		fmt.Fprintf(b, "Valuation: attractive (PE %.1f).\n", *pe)
	case *pe < 25:
		fmt.Fprintf(b, "Valuation: reasonable (PE %.1f).\n", *pe)
	case *pe < 40:
		fmt.Fprintf(b, "Valuation: elevated (PE %.1f).\n", *pe)
	default:
		fmt.Fprintf(b, "Valuation: expensive (PE %.1f).\n", *pe)
	}

	if peg != nil {
		switch {
		case *peg < 1:
			fmt.Fprintf(b, "PEG of %.2f signals cheap growth.\n", *peg)
		case *peg < 1.5:
			fmt.Fprintf(b, "PEG of %.2f is fair for the growth rate.\n", *peg)
		default:
			fmt.Fprintf(b, "PEG of %.2f is on the high side.\n", *peg)
		}
	}
}

func writeTechnicalSection(b *strings.Builder, p *contracts.TechnicalProfile) {
	switch {
	case p.RSI < 30:
		fmt.Fprintf(b, "RSI (%.1f): oversold, potential entry signal.\n", p.RSI)
	case p.RSI > 70:
		fmt.Fprintf(b, "RSI (%.1f): overbought, risk of pullback.\n", p.RSI)
	case p.RSI < 50:
		fmt.Fprintf(b, "RSI (%.1f): mild downward pressure.\n", p.RSI)
	default:
		fmt.Fprintf(b, "RSI (%.1f): mild upward pressure.\n", p.RSI)
	}

	if p.Trend == contracts.TrendBullish {
		b.WriteString("Long-term trend: bullish, price above its 200-day average.\n")
	} else {
		b.WriteString("Long-term trend: bearish, price below its 200-day average.\n")
	}
	switch p.ShortTrend {
	case contracts.TrendBullish:
		b.WriteString("Short-term trend: bullish, positive momentum.\n")
	case contracts.TrendBearish:
		b.WriteString("Short-term trend: bearish, negative momentum.\n")
	}

	if p.Change1M != nil && p.Change3M != nil {
		c1, c3 := *p.Change1M, *p.Change3M
		switch {
		case c1 > 5 && c3 > 10:
			fmt.Fprintf(b, "Momentum: strong (%+.1f%% over 1 month, %+.1f%% over 3 months).\n", c1, c3)
		case c1 > 0 && c3 > 0:
			fmt.Fprintf(b, "Momentum: positive (%+.1f%% over 1 month, %+.1f%% over 3 months).\n", c1, c3)
		case c1 < -5 || c3 < -10:
			fmt.Fprintf(b, "Momentum: negative (%+.1f%% over 1 month, %+.1f%% over 3 months).\n", c1, c3)
		default:
			fmt.Fprintf(b, "Momentum: mixed (%+.1f%% over 1 month, %+.1f%% over 3 months).\n", c1, c3)
		}
	}
}

func writeVerdictSection(b *strings.Builder, p *contracts.TechnicalProfile, v Verdict) {
	switch v {
	case VerdictBuy:
		fmt.Fprintf(b, "VERDICT: BUY. Fundamentals and trend align; ideal entry between %.2f EUR and %.2f EUR.\n",
			p.BuyZoneLowEUR, p.BuyZoneHighEUR)
		if p.InBuyZone() {
			b.WriteString("The current price is already inside the buy zone.\n")
		}
	case VerdictWatch:
		fmt.Fprintf(b, "VERDICT: WATCH. Some positives, but wait for an entry between %.2f EUR and %.2f EUR.\n",
			p.BuyZoneLowEUR, p.BuyZoneHighEUR)
	default:
		fmt.Fprintf(b, "VERDICT: NEUTRAL. Conditions are unfavorable; wait for a return toward %.2f EUR.\n",
			p.Support6MEUR)
	}
}
