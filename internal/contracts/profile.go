package contracts

// Trend classifies price position relative to a moving average.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// TechnicalProfile is the terminal artifact of the pipeline: a scored
// candidate enriched with momentum indicators, support levels and a
// buy-zone band. All *EUR fields mirror their source field through the
// run's single FX rate. Optional indicators are nil when the history was
// too short for their lookback.
type TechnicalProfile struct {
	ScoredCandidate

	CurrentPrice float64 `json:"current_price"`

	// Momentum / trend
	RSI        float64  `json:"rsi"`
	SMA200     float64  `json:"sma200"`
	SMA50      *float64 `json:"sma50,omitempty"`
	Trend      Trend    `json:"trend"`
	ShortTrend Trend    `json:"short_trend"`

	// Performance
	Volatility20D *float64 `json:"volatility_20d,omitempty"` // stddev/mean of last 20 closes, percent
	Change1M      *float64 `json:"change_1m,omitempty"`      // percent vs close 20 bars back
	Change3M      *float64 `json:"change_3m,omitempty"`      // percent vs close 60 bars back
	Change6M      *float64 `json:"change_6m,omitempty"`      // percent vs close 120 bars back
	VolumeRatio   *float64 `json:"volume_ratio,omitempty"`   // last volume / 20-day average

	// Support / resistance
	Support52W    float64 `json:"support_52w"`
	Resistance52W float64 `json:"resistance_52w"`
	Support3M     float64 `json:"support_3m"`
	Support6M     float64 `json:"support_6m"`

	// Fibonacci retracements, computed only in a bullish regime
	Fib236 *float64 `json:"fib_236,omitempty"`
	Fib382 *float64 `json:"fib_382,omitempty"`
	Fib500 *float64 `json:"fib_500,omitempty"`
	Fib618 *float64 `json:"fib_618,omitempty"`

	// Buy zone, anchored to SMA200 (bullish) or the 6-month support (bearish)
	BuyZoneLow  float64 `json:"buy_zone_low"`
	BuyZoneHigh float64 `json:"buy_zone_high"`

	// Reporting-currency mirrors
	CurrentPriceEUR float64  `json:"current_price_eur"`
	SMA200EUR       float64  `json:"sma200_eur"`
	Support6MEUR    float64  `json:"support_6m_eur"`
	BuyZoneLowEUR   float64  `json:"buy_zone_low_eur"`
	BuyZoneHighEUR  float64  `json:"buy_zone_high_eur"`
	Fib382EUR       *float64 `json:"fib_382_eur,omitempty"`
	Fib618EUR       *float64 `json:"fib_618_eur,omitempty"`
}

// InBuyZone reports whether the current price sits inside the buy band.
func (p *TechnicalProfile) InBuyZone() bool {
	return p.CurrentPrice >= p.BuyZoneLow && p.CurrentPrice <= p.BuyZoneHigh
}
