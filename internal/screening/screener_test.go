package screening

import (
	"testing"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/internal/fundamentals"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/logger"
)

func defaultThresholds() config.Thresholds {
	return config.Thresholds{
		MinRevenueGrowth:  0.12,
		MinEarningsGrowth: 0.10,
		MinROE:            0.15,
		MinProfitMargin:   0.08,
		MinPE:             10,
		MaxPE:             30,
		MinPEG:            0.3,
		MaxPEG:            2.0,
		MinMarketCap:      2_000_000_000,
	}
}

func newTestScreener() *Screener {
	return NewScreener(defaultThresholds(), logger.NewNop())
}

func TestAccept(t *testing.T) {
	f := contracts.Float

	tests := []struct {
		name string
		snap contracts.FundamentalSnapshot
		want bool
	}{
		{
			name: "strong growth with solid fundamentals and fair valuation",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.20), ProfitMargin: f(0.10), ROE: f(0.16),
				PE: f(18), PEG: f(1.2),
			},
			want: true,
		},
		{
			name: "growth far below the relaxed floor rejects despite excellent fundamentals",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.05), ProfitMargin: f(0.30), ROE: f(0.40),
				PE: f(15), PEG: f(1.0),
			},
			want: false,
		},
		{
			name: "strong growth with weak fundamentals but fair valuation",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.15), ProfitMargin: f(0.02), ROE: f(0.05),
				PE: f(20), PEG: f(1.5),
			},
			want: true,
		},
		{
			name: "strong growth with weak fundamentals and stretched valuation",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.15), ProfitMargin: f(0.02), ROE: f(0.05),
				PE: f(45), PEG: f(1.5),
			},
			want: false,
		},
		{
			name: "relaxed path: near-threshold growth with solid fundamentals and sane PE",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.09), ProfitMargin: f(0.12), ROE: f(0.20),
				PE: f(22),
			},
			want: true,
		},
		{
			name: "relaxed path fails on stretched PE even with solid fundamentals",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.09), ProfitMargin: f(0.12), ROE: f(0.20),
				PE: f(45),
			},
			want: false,
		},
		{
			name: "relaxed path ignores a bad PEG",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.09), ProfitMargin: f(0.12), ROE: f(0.20),
				PE: f(22), PEG: f(5.0),
			},
			want: true,
		},
		{
			name: "unknown PE and PEG are a neutral pass",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.15), ProfitMargin: f(0.02), ROE: f(0.05),
			},
			want: true,
		},
		{
			name: "unknown growth counts as zero and rejects",
			snap: contracts.FundamentalSnapshot{
				ProfitMargin: f(0.30), ROE: f(0.40), PE: f(15),
			},
			want: false,
		},
		{
			name: "known market cap below floor rejects unconditionally",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.20), ProfitMargin: f(0.10), ROE: f(0.16),
				PE: f(18), PEG: f(1.2), MarketCap: f(1_500_000_000),
			},
			want: false,
		},
		{
			name: "unknown market cap does not reject",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.20), ProfitMargin: f(0.10), ROE: f(0.16),
				PE: f(18), PEG: f(1.2),
			},
			want: true,
		},
		{
			name: "zero profit margin is a real value, not unknown",
			snap: contracts.FundamentalSnapshot{
				RevenueGrowth: f(0.09), ProfitMargin: f(0.0), ROE: f(0.20),
				PE: f(22),
			},
			want: false,
		},
	}

	s := newTestScreener()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Accept(tt.snap); got != tt.want {
				t.Errorf("Accept() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScreenPreservesOrderAndCopiesIdentity(t *testing.T) {
	f := contracts.Float
	pass := contracts.FundamentalSnapshot{
		RevenueGrowth: f(0.20), ProfitMargin: f(0.10), ROE: f(0.16), PE: f(18), PEG: f(1.2),
	}
	fail := contracts.FundamentalSnapshot{RevenueGrowth: f(0.01)}

	infos := []fundamentals.CompanyInfo{
		{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", Price: 212.5, Currency: "USD", Snapshot: pass},
		{Ticker: "ZZZZ", Name: "Reject Corp", Snapshot: fail},
		{Ticker: "MSFT", Name: "Microsoft", Sector: "Technology", Price: 430, Currency: "USD", Snapshot: pass},
	}

	got := newTestScreener().Screen(infos)
	if len(got) != 2 {
		t.Fatalf("Screen() kept %d candidates, want 2", len(got))
	}
	if got[0].Ticker != "AAPL" || got[1].Ticker != "MSFT" {
		t.Errorf("Screen() must preserve input order, got %s, %s", got[0].Ticker, got[1].Ticker)
	}
	if got[0].Name != "Apple Inc." || got[0].Price != 212.5 {
		t.Errorf("identity fields must carry through, got %+v", got[0])
	}
}
