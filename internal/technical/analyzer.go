package technical

import (
	"context"
	"errors"
	"math"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/logger"
)

// ErrNotEnoughData is returned for price series shorter than minObservations.
// It marks a normal skip, not a failure.
var ErrNotEnoughData = errors.New("not enough price history")

const (
	minObservations = 200
	rsiPeriod       = 14
	sma50Period     = 50
	sma200Period    = 200
)

// FXRater supplies the run's single USD to EUR rate.
type FXRater interface {
	Rate(ctx context.Context) float64
}

// Analyzer derives momentum indicators, support levels and buy zones from a
// daily price series.
type Analyzer struct {
	fx     FXRater
	logger *logger.Logger
}

// NewAnalyzer creates a technical analyzer.
func NewAnalyzer(fx FXRater, log *logger.Logger) *Analyzer {
	return &Analyzer{fx: fx, logger: log}
}

// Analyze enriches a scored candidate with technical indicators computed
// from its daily bars (ordered oldest first). Requires at least 200
// observations.
func (a *Analyzer) Analyze(ctx context.Context, candidate contracts.ScoredCandidate, bars []contracts.PriceBar) (*contracts.TechnicalProfile, error) {
	if len(bars) < minObservations {
		return nil, ErrNotEnoughData
	}

	closes := make([]float64, len(bars))
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	currentPrice := closes[len(closes)-1]
	sma200 := sma(closes, sma200Period)

	profile := &contracts.TechnicalProfile{
		ScoredCandidate: candidate,
		CurrentPrice:    round2(currentPrice),
		RSI:             round2(rsi(closes, rsiPeriod)),
		SMA200:          round2(sma200),
	}

	if len(closes) >= sma50Period {
		sma50 := sma(closes, sma50Period)
		profile.SMA50 = ptr(round2(sma50))
		if currentPrice > sma50 {
			profile.ShortTrend = contracts.TrendBullish
		} else {
			profile.ShortTrend = contracts.TrendBearish
		}
	} else {
		profile.ShortTrend = contracts.TrendNeutral
	}

	bullish := currentPrice > sma200
	if bullish {
		profile.Trend = contracts.TrendBullish
	} else {
		profile.Trend = contracts.TrendBearish
	}

	if len(closes) >= 20 {
		tail := closes[len(closes)-20:]
		m := mean(tail)
		if m > 0 {
			profile.Volatility20D = ptr(round2(stddev(tail) / m * 100))
		}
		profile.Change1M = changePct(closes, 20)
	}
	profile.Change3M = changePct(closes, 60)
	profile.Change6M = changePct(closes, 120)

	if ratio := volumeRatio(volumes); ratio != nil {
		profile.VolumeRatio = ptr(round2(*ratio))
	}

	support52w, resistance52w := minMaxTail(closes, 252)
	support3m := support52w
	if len(closes) >= 60 {
		support3m, _ = minMaxTail(closes, 60)
	}
	support6m := support52w
	if len(closes) >= 120 {
		support6m, _ = minMaxTail(closes, 120)
	}
	profile.Support52W = round2(support52w)
	profile.Resistance52W = round2(resistance52w)
	profile.Support3M = round2(support3m)
	profile.Support6M = round2(support6m)

	// Retracement levels only make sense when price trades above its long
	// average; in a bearish regime they stay unset.
	if bullish {
		span := resistance52w - support52w
		profile.Fib236 = ptr(round2(resistance52w - span*0.236))
		profile.Fib382 = ptr(round2(resistance52w - span*0.382))
		profile.Fib500 = ptr(round2(resistance52w - span*0.500))
		profile.Fib618 = ptr(round2(resistance52w - span*0.618))
	}

	if bullish {
		profile.BuyZoneLow = round2(sma200 * 0.98)
		profile.BuyZoneHigh = round2(sma200 * 1.02)
	} else {
		profile.BuyZoneLow = round2(support6m * 0.97)
		profile.BuyZoneHigh = round2(support6m * 1.03)
	}

	rate := a.fx.Rate(ctx)
	toEUR := func(v float64) float64 { return round2(v * rate) }
	profile.CurrentPriceEUR = toEUR(currentPrice)
	profile.SMA200EUR = toEUR(sma200)
	profile.Support6MEUR = toEUR(support6m)
	profile.BuyZoneLowEUR = toEUR(profile.BuyZoneLow)
	profile.BuyZoneHighEUR = toEUR(profile.BuyZoneHigh)
	if profile.Fib382 != nil {
		profile.Fib382EUR = ptr(toEUR(*profile.Fib382))
	}
	if profile.Fib618 != nil {
		profile.Fib618EUR = ptr(toEUR(*profile.Fib618))
	}

	a.logger.WithFields(map[string]interface{}{
		"ticker": candidate.Ticker,
		"trend":  profile.Trend,
		"rsi":    profile.RSI,
	}).Debug("Technical profile computed")

	return profile, nil
}

// rsi computes the relative strength index over the trailing period using
// the average gain/loss ratio of the last `period` deltas.
func rsi(closes []float64, period int) float64 {
	window := closes[len(closes)-period-1:]

	var gain, loss float64
	for i := 1; i < len(window); i++ {
		d := window[i] - window[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	if loss == 0 {
		if gain == 0 {
			return 50
		}
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// sma averages the trailing period closes.
func sma(closes []float64, period int) float64 {
	return mean(closes[len(closes)-period:])
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev is the sample standard deviation.
func stddev(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	m := mean(vs)
	var sq float64
	for _, v := range vs {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(vs)-1))
}

// changePct is the percent change of the last close against the close
// `lag` bars back, or nil when the series is too short.
func changePct(closes []float64, lag int) *float64 {
	if len(closes) < lag {
		return nil
	}
	base := closes[len(closes)-lag]
	if base == 0 {
		return nil
	}
	current := closes[len(closes)-1]
	return ptr(round2((current - base) / base * 100))
}

// volumeRatio compares the latest volume against its 20-day average.
func volumeRatio(volumes []int64) *float64 {
	if len(volumes) < 20 {
		return nil
	}
	tail := volumes[len(volumes)-20:]
	var sum int64
	for _, v := range tail {
		sum += v
	}
	avg := float64(sum) / 20
	if avg <= 0 {
		return nil
	}
	ratio := float64(volumes[len(volumes)-1]) / avg
	return &ratio
}

// minMaxTail returns min and max over the trailing n closes, or over the
// whole series when it is shorter than n.
func minMaxTail(closes []float64, n int) (float64, float64) {
	tail := closes
	if len(closes) >= n {
		tail = closes[len(closes)-n:]
	}
	lo, hi := tail[0], tail[0]
	for _, v := range tail[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }
