package contracts

// FundamentalSnapshot is the per-ticker bag of fundamental metrics as
// reported by the fundamentals provider. Every field is optional: a nil
// pointer means the provider did not report the value, which is not the
// same thing as reporting zero. Growth, margin and yield fields are ratios
// (0.12 = 12%); MarketCap and cash-flow figures are absolute amounts in the
// instrument's reporting currency.
type FundamentalSnapshot struct {
	RevenueGrowth           *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth          *float64 `json:"earnings_growth,omitempty"`
	EarningsQuarterlyGrowth *float64 `json:"earnings_quarterly_growth,omitempty"`

	ROE            *float64 `json:"roe,omitempty"`
	ReturnOnAssets *float64 `json:"return_on_assets,omitempty"`

	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	EBITDAMargin    *float64 `json:"ebitda_margin,omitempty"`

	PE          *float64 `json:"pe,omitempty"`
	PEG         *float64 `json:"peg,omitempty"`
	PriceToBook *float64 `json:"price_to_book,omitempty"`

	MarketCap    *float64 `json:"market_cap,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`

	FreeCashflow      *float64 `json:"free_cashflow,omitempty"`
	OperatingCashflow *float64 `json:"operating_cashflow,omitempty"`
	TotalRevenue      *float64 `json:"total_revenue,omitempty"`

	EPS       *float64 `json:"eps,omitempty"`
	BookValue *float64 `json:"book_value,omitempty"`

	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"payout_ratio,omitempty"`
}

// OrZero returns the pointed-to value, or 0 when the field is unknown.
// Screening treats unknown growth and profitability as zero.
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 {
	return &v
}
