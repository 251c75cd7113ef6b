package opinion

import (
	"context"
	"strings"
	"testing"

	"github.com/mlefloch/stockscout/internal/contracts"
)

func profile(revGrowth, roe, margin, rsi float64, pe *float64, trend contracts.Trend) *contracts.TechnicalProfile {
	return &contracts.TechnicalProfile{
		ScoredCandidate: contracts.ScoredCandidate{
			ScreenedCandidate: contracts.ScreenedCandidate{
				Ticker: "AAPL",
				Name:   "Apple Inc.",
				Sector: "Technology",
				Fund: contracts.FundamentalSnapshot{
					RevenueGrowth: contracts.Float(revGrowth),
					ROE:           contracts.Float(roe),
					ProfitMargin:  contracts.Float(margin),
					PE:            pe,
				},
			},
		},
		RSI:            rsi,
		Trend:          trend,
		BuyZoneLowEUR:  150,
		BuyZoneHighEUR: 160,
		Support6MEUR:   140,
	}
}

func TestClassify(t *testing.T) {
	f := contracts.Float

	tests := []struct {
		name string
		p    *contracts.TechnicalProfile
		want Verdict
	}{
		{
			// 2 (growth) + 2 (roe) + 1 (margin) + 1 (pe) + 1 (rsi) + 1 (trend) = 8
			name: "everything aligned",
			p:    profile(0.20, 0.25, 0.15, 55, f(18), contracts.TrendBullish),
			want: VerdictBuy,
		},
		{
			// 1 (growth) + 1 (roe) + 1 (rsi) + 1 (trend) = 4
			name: "middling profile",
			p:    profile(0.06, 0.12, 0.05, 55, f(30), contracts.TrendBullish),
			want: VerdictWatch,
		},
		{
			name: "weak everywhere",
			p:    profile(0.01, 0.05, 0.02, 80, nil, contracts.TrendBearish),
			want: VerdictNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.p); got != tt.want {
				t.Errorf("classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAdviseDeterministic(t *testing.T) {
	a := NewFallbackAdvisor()
	p := profile(0.20, 0.25, 0.15, 55, contracts.Float(18.0), contracts.TrendBullish)

	first, err := a.Advise(context.Background(), p)
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	second, _ := a.Advise(context.Background(), p)
	if first.Text != second.Text || first.Verdict != second.Verdict {
		t.Error("Advise() must be deterministic for the same profile")
	}
}

func TestAdviseTextSections(t *testing.T) {
	a := NewFallbackAdvisor()
	p := profile(0.20, 0.25, 0.15, 55, contracts.Float(18.0), contracts.TrendBullish)

	op, err := a.Advise(context.Background(), p)
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}

	for _, want := range []string{
		"Apple Inc.",
		"=== FUNDAMENTALS ===",
		"=== TECHNICALS ===",
		"=== VERDICT ===",
		"VERDICT: BUY",
		"150.00 EUR",
	} {
		if !strings.Contains(op.Text, want) {
			t.Errorf("opinion text missing %q", want)
		}
	}
}

func TestAdviseNeutralPointsAtSupport(t *testing.T) {
	a := NewFallbackAdvisor()
	p := profile(0.01, 0.05, 0.02, 80, nil, contracts.TrendBearish)

	op, _ := a.Advise(context.Background(), p)
	if op.Verdict != VerdictNeutral {
		t.Fatalf("verdict = %s, want neutral", op.Verdict)
	}
	if !strings.Contains(op.Text, "140.00 EUR") {
		t.Error("neutral verdict must reference the 6-month support level")
	}
}
