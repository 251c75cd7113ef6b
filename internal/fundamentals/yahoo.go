package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mlefloch/stockscout/internal/contracts"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
	"github.com/mlefloch/stockscout/pkg/redisutil"
)

const summaryModules = "financialData,defaultKeyStatistics,summaryDetail,price,summaryProfile"

// YahooProvider fetches fundamental snapshots from the Yahoo Finance
// quoteSummary API.
type YahooProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redisutil.Cache
	baseURL    string
}

// NewYahooProvider creates the fundamentals provider. cache may be nil.
func NewYahooProvider(httpClient *httputil.Client, cache *redisutil.Cache, log *logger.Logger) *YahooProvider {
	return &YahooProvider{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

// yahooValue is Yahoo's {"raw": n, "fmt": "..."} wrapper. Absent metrics
// come through as empty objects, which leaves Raw nil.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				CurrentPrice      yahooValue `json:"currentPrice"`
				RevenueGrowth     yahooValue `json:"revenueGrowth"`
				EarningsGrowth    yahooValue `json:"earningsGrowth"`
				ReturnOnEquity    yahooValue `json:"returnOnEquity"`
				ReturnOnAssets    yahooValue `json:"returnOnAssets"`
				ProfitMargins     yahooValue `json:"profitMargins"`
				GrossMargins      yahooValue `json:"grossMargins"`
				OperatingMargins  yahooValue `json:"operatingMargins"`
				EbitdaMargins     yahooValue `json:"ebitdaMargins"`
				DebtToEquity      yahooValue `json:"debtToEquity"`
				CurrentRatio      yahooValue `json:"currentRatio"`
				FreeCashflow      yahooValue `json:"freeCashflow"`
				OperatingCashflow yahooValue `json:"operatingCashflow"`
				TotalRevenue      yahooValue `json:"totalRevenue"`
			} `json:"financialData"`
			DefaultKeyStatistics *struct {
				PegRatio                yahooValue `json:"pegRatio"`
				TrailingEps             yahooValue `json:"trailingEps"`
				ForwardEps              yahooValue `json:"forwardEps"`
				BookValue               yahooValue `json:"bookValue"`
				PriceToBook             yahooValue `json:"priceToBook"`
				EarningsQuarterlyGrowth yahooValue `json:"earningsQuarterlyGrowth"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail *struct {
				TrailingPE    yahooValue `json:"trailingPE"`
				MarketCap     yahooValue `json:"marketCap"`
				DividendYield yahooValue `json:"dividendYield"`
				PayoutRatio   yahooValue `json:"payoutRatio"`
				PreviousClose yahooValue `json:"previousClose"`
			} `json:"summaryDetail"`
			Price *struct {
				LongName           string     `json:"longName"`
				ShortName          string     `json:"shortName"`
				Currency           string     `json:"currency"`
				RegularMarketPrice yahooValue `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryProfile *struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Fetch retrieves the fundamental snapshot for one ticker.
func (p *YahooProvider) Fetch(ctx context.Context, ticker contracts.TickerID) (CompanyInfo, error) {
	if p.cache != nil {
		var cached CompanyInfo
		hit, err := p.cache.Get(ctx, cacheKey(ticker), &cached)
		if err != nil {
			p.logger.WithError(err).Warn("Fundamentals cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", p.baseURL, ticker, summaryModules)
	body, err := p.httpClient.GetBody(ctx, url)
	if err != nil {
		return CompanyInfo{}, fmt.Errorf("quoteSummary request failed: %w", err)
	}

	info, err := parseQuoteSummary(ticker, body)
	if err != nil {
		return CompanyInfo{}, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey(ticker), info, redisutil.TTLFundamentals); err != nil {
			p.logger.WithError(err).Warn("Fundamentals cache write failed")
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"name":   info.Name,
	}).Debug("Fetched fundamentals")
	return info, nil
}

func parseQuoteSummary(ticker contracts.TickerID, body []byte) (CompanyInfo, error) {
	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return CompanyInfo{}, fmt.Errorf("parse quoteSummary response: %w", err)
	}
	if parsed.QuoteSummary.Error != nil {
		return CompanyInfo{}, fmt.Errorf("quoteSummary error %s: %w", parsed.QuoteSummary.Error.Code, ErrNoData)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return CompanyInfo{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	result := parsed.QuoteSummary.Result[0]

	info := CompanyInfo{
		Ticker: ticker,
		Name:   string(ticker),
		Sector: "N/A",
	}

	if pr := result.Price; pr != nil {
		if pr.LongName != "" {
			info.Name = pr.LongName
		} else if pr.ShortName != "" {
			info.Name = pr.ShortName
		}
		info.Currency = pr.Currency
		if pr.RegularMarketPrice.Raw != nil {
			info.Price = *pr.RegularMarketPrice.Raw
		}
	}
	if sp := result.SummaryProfile; sp != nil && sp.Sector != "" {
		info.Sector = sp.Sector
	}

	snap := &info.Snapshot
	if fd := result.FinancialData; fd != nil {
		if info.Price == 0 && fd.CurrentPrice.Raw != nil {
			info.Price = *fd.CurrentPrice.Raw
		}
		snap.RevenueGrowth = fd.RevenueGrowth.Raw
		snap.EarningsGrowth = fd.EarningsGrowth.Raw
		snap.ROE = fd.ReturnOnEquity.Raw
		snap.ReturnOnAssets = fd.ReturnOnAssets.Raw
		snap.ProfitMargin = fd.ProfitMargins.Raw
		snap.GrossMargin = fd.GrossMargins.Raw
		snap.OperatingMargin = fd.OperatingMargins.Raw
		snap.EBITDAMargin = fd.EbitdaMargins.Raw
		snap.DebtToEquity = fd.DebtToEquity.Raw
		snap.CurrentRatio = fd.CurrentRatio.Raw
		snap.FreeCashflow = fd.FreeCashflow.Raw
		snap.OperatingCashflow = fd.OperatingCashflow.Raw
		snap.TotalRevenue = fd.TotalRevenue.Raw
	}
	if ks := result.DefaultKeyStatistics; ks != nil {
		snap.PEG = ks.PegRatio.Raw
		snap.PriceToBook = ks.PriceToBook.Raw
		snap.BookValue = ks.BookValue.Raw
		snap.EarningsQuarterlyGrowth = ks.EarningsQuarterlyGrowth.Raw
		snap.EPS = ks.TrailingEps.Raw
		if snap.EPS == nil {
			snap.EPS = ks.ForwardEps.Raw
		}
	}
	if sd := result.SummaryDetail; sd != nil {
		snap.PE = sd.TrailingPE.Raw
		snap.MarketCap = sd.MarketCap.Raw
		snap.DividendYield = sd.DividendYield.Raw
		snap.PayoutRatio = sd.PayoutRatio.Raw
		if info.Price == 0 && sd.PreviousClose.Raw != nil {
			info.Price = *sd.PreviousClose.Raw
		}
	}

	// A missing price is not fatal here: the caller can still consult the
	// consensus resolver before giving up on the ticker.
	return info, nil
}

func cacheKey(ticker contracts.TickerID) string {
	return "fundamentals:" + string(ticker)
}
