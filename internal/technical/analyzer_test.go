package technical

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/logger"
)

type fixedRate float64

func (r fixedRate) Rate(ctx context.Context) float64 { return float64(r) }

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(fixedRate(0.92), logger.NewNop())
}

// series builds n daily bars whose closes come from fn(i).
func series(n int, fn func(i int) float64) []contracts.PriceBar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Close:  fn(i),
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestAnalyzeShortSeries(t *testing.T) {
	a := newTestAnalyzer()
	for _, n := range []int{0, 1, 50, 199} {
		bars := series(n, func(i int) float64 { return 100 })
		if _, err := a.Analyze(context.Background(), contracts.ScoredCandidate{}, bars); !errors.Is(err, ErrNotEnoughData) {
			t.Errorf("%d bars: want ErrNotEnoughData, got %v", n, err)
		}
	}
}

func TestAnalyzeBullishRegime(t *testing.T) {
	// Steadily rising series: price ends well above its 200-day average.
	bars := series(250, func(i int) float64 { return 100 + float64(i)*0.5 })

	p, err := newTestAnalyzer().Analyze(context.Background(), contracts.ScoredCandidate{}, bars)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if p.Trend != contracts.TrendBullish {
		t.Errorf("trend = %s, want bullish", p.Trend)
	}
	if p.ShortTrend != contracts.TrendBullish {
		t.Errorf("short trend = %s, want bullish", p.ShortTrend)
	}

	// Bullish buy zone brackets the SMA200 within 2%.
	if p.BuyZoneLow > p.BuyZoneHigh {
		t.Errorf("buy zone inverted: %f > %f", p.BuyZoneLow, p.BuyZoneHigh)
	}
	if math.Abs(p.BuyZoneLow-p.SMA200*0.98) > 0.01 || math.Abs(p.BuyZoneHigh-p.SMA200*1.02) > 0.01 {
		t.Errorf("buy zone [%f, %f] not within 2%% of SMA200 %f", p.BuyZoneLow, p.BuyZoneHigh, p.SMA200)
	}

	// Rising regime computes all four retracement levels, in descending order.
	if p.Fib236 == nil || p.Fib382 == nil || p.Fib500 == nil || p.Fib618 == nil {
		t.Fatal("bullish regime must compute all fibonacci levels")
	}
	if !(*p.Fib236 > *p.Fib382 && *p.Fib382 > *p.Fib500 && *p.Fib500 > *p.Fib618) {
		t.Errorf("fib levels out of order: %f %f %f %f", *p.Fib236, *p.Fib382, *p.Fib500, *p.Fib618)
	}

	// Monotonic gains drive RSI to its ceiling.
	if p.RSI != 100 {
		t.Errorf("RSI = %f, want 100 for an all-gains window", p.RSI)
	}
	if p.RSI < 0 || p.RSI > 100 {
		t.Errorf("RSI %f out of [0,100]", p.RSI)
	}
}

func TestAnalyzeBearishRegime(t *testing.T) {
	// Steadily falling series: price ends below its 200-day average.
	bars := series(250, func(i int) float64 { return 300 - float64(i)*0.5 })

	p, err := newTestAnalyzer().Analyze(context.Background(), contracts.ScoredCandidate{}, bars)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if p.Trend != contracts.TrendBearish {
		t.Errorf("trend = %s, want bearish", p.Trend)
	}
	if p.Fib236 != nil || p.Fib618 != nil {
		t.Error("bearish regime must not compute fibonacci levels")
	}

	// Bearish buy zone anchors to the 6-month support.
	wantLow := round2(p.Support6M * 0.97)
	wantHigh := round2(p.Support6M * 1.03)
	if p.BuyZoneLow != wantLow || p.BuyZoneHigh != wantHigh {
		t.Errorf("buy zone [%f, %f], want [%f, %f]", p.BuyZoneLow, p.BuyZoneHigh, wantLow, wantHigh)
	}
	if p.BuyZoneLow > p.BuyZoneHigh {
		t.Errorf("buy zone inverted: %f > %f", p.BuyZoneLow, p.BuyZoneHigh)
	}
}

func TestAnalyzeEURMirrors(t *testing.T) {
	bars := series(250, func(i int) float64 { return 100 + float64(i)*0.5 })

	p, err := newTestAnalyzer().Analyze(context.Background(), contracts.ScoredCandidate{}, bars)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if want := round2(p.CurrentPrice * 0.92); math.Abs(p.CurrentPriceEUR-want) > 0.01 {
		t.Errorf("CurrentPriceEUR = %f, want %f", p.CurrentPriceEUR, want)
	}
	if want := round2(p.BuyZoneLow * 0.92); math.Abs(p.BuyZoneLowEUR-want) > 0.01 {
		t.Errorf("BuyZoneLowEUR = %f, want %f", p.BuyZoneLowEUR, want)
	}
	if p.Fib382EUR == nil {
		t.Fatal("bullish regime must mirror Fib382 into EUR")
	}
	if want := round2(*p.Fib382 * 0.92); math.Abs(*p.Fib382EUR-want) > 0.01 {
		t.Errorf("Fib382EUR = %f, want %f", *p.Fib382EUR, want)
	}
}

func TestAnalyzeSupportLevels(t *testing.T) {
	// Single dip inside the last 120 bars but outside the last 60.
	bars := series(260, func(i int) float64 {
		if i == 190 {
			return 50
		}
		return 100
	})

	p, err := newTestAnalyzer().Analyze(context.Background(), contracts.ScoredCandidate{}, bars)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if p.Support52W != 50 || p.Support6M != 50 {
		t.Errorf("supports = %f/%f, want the dip at 50", p.Support52W, p.Support6M)
	}
	// The dip at bar 190 is outside the last 60 bars.
	if p.Support3M != 100 {
		t.Errorf("Support3M = %f, want 100", p.Support3M)
	}
	if p.Resistance52W != 100 {
		t.Errorf("Resistance52W = %f, want 100", p.Resistance52W)
	}
}

func TestRSIBounds(t *testing.T) {
	tests := []struct {
		name string
		fn   func(i int) float64
		want func(v float64) bool
	}{
		{"all gains", func(i int) float64 { return float64(100 + i) }, func(v float64) bool { return v == 100 }},
		{"all losses", func(i int) float64 { return float64(1000 - i) }, func(v float64) bool { return v == 0 }},
		{"flat", func(i int) float64 { return 100 }, func(v float64) bool { return v == 50 }},
		{"mixed", func(i int) float64 { return 100 + float64(i%2) }, func(v float64) bool { return v > 0 && v < 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closes := make([]float64, 30)
			for i := range closes {
				closes[i] = tt.fn(i)
			}
			got := rsi(closes, 14)
			if !tt.want(got) {
				t.Errorf("rsi() = %f", got)
			}
			if got < 0 || got > 100 {
				t.Errorf("rsi() = %f out of [0,100]", got)
			}
		})
	}
}

func TestChangePct(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100
	}
	closes[len(closes)-20] = 80
	closes[len(closes)-1] = 100

	got := changePct(closes, 20)
	if got == nil || *got != 25 {
		t.Errorf("changePct(20) = %v, want 25", got)
	}
	if changePct(closes[:50], 60) != nil {
		t.Error("changePct must be nil when the series is shorter than the lag")
	}
}
