package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/stockpicker/internal/infra"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// DefaultYahooBaseURL is the Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YFinance fetches price history, income statements and quotes from Yahoo Finance.
type YFinance struct {
	client  *Client
	baseURL string
	now     func() time.Time

	candles *infra.Cache[[]models.OHLCV]
	income  *infra.Cache[*models.IncomeHistory]
	quotes  *infra.Cache[*models.Quote]
}

// NewYFinance creates a Yahoo Finance source. An empty baseURL selects
// DefaultYahooBaseURL; ttl bounds how long responses are reused.
func NewYFinance(client *Client, baseURL string, ttl time.Duration) *YFinance {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YFinance{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		candles: infra.NewCache[[]models.OHLCV](ttl),
		income:  infra.NewCache[*models.IncomeHistory](ttl),
		quotes:  infra.NewCache[*models.Quote](ttl),
	}
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance API types ---

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	Sector             string  `json:"sector"`
	Industry           string  `json:"industry"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	MarketCap          float64 `json:"marketCap"`
	TrailingPE         float64 `json:"trailingPE"`
	ForwardPE          float64 `json:"forwardPE"`
	PriceToBook        float64 `json:"priceToBook"`
	DividendYield      float64 `json:"dividendYield"`
	EnterpriseToEbitda float64 `json:"enterpriseToEbitda"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
}

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfSummaryResponse struct {
	QuoteSummary struct {
		Result []yfSummaryResult `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"quoteSummary"`
}

type yfSummaryResult struct {
	IncomeStatementHistory          *yfStatementHistory `json:"incomeStatementHistory"`
	IncomeStatementHistoryQuarterly *yfStatementHistory `json:"incomeStatementHistoryQuarterly"`
}

// Both the annual and quarterly modules nest their rows under the same key.
type yfStatementHistory struct {
	Statements []map[string]yfFinVal `json:"incomeStatementHistory,omitempty"`
}

// Raw is nil when Yahoo sends an empty object for a missing line item.
type yfFinVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- Public methods ---

// History returns daily candles covering the last `years` years.
func (y *YFinance) History(ctx context.Context, ticker string, years int) ([]models.OHLCV, error) {
	yfTicker := utils.ToYFinanceTicker(ticker)
	if yfTicker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrTickerNotFound)
	}
	if years <= 0 {
		years = 1
	}

	cacheKey := fmt.Sprintf("%s:%dy", yfTicker, years)
	return y.candles.GetOrLoad(ctx, cacheKey, func(ctx context.Context) ([]models.OHLCV, error) {
		to := y.now()
		from := to.AddDate(-years, 0, 0)
		u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
			y.baseURL, url.PathEscape(yfTicker), from.Unix(), to.Unix())

		var resp yfChartResponse
		if err := y.client.getJSON(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("yfinance chart %s: %w", yfTicker, err)
		}
		if resp.Chart.Error != nil {
			return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
		}
		if len(resp.Chart.Result) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return parseYFCandles(resp.Chart.Result[0]), nil
	})
}

// IncomeHistory returns annual revenue and net income plus quarterly
// revenue. Revenue falls back to operating revenue and net income to the
// amount applicable to common shares when the primary line is missing.
func (y *YFinance) IncomeHistory(ctx context.Context, ticker string) (*models.IncomeHistory, error) {
	yfTicker := utils.ToYFinanceTicker(ticker)
	if yfTicker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrTickerNotFound)
	}

	return y.income.GetOrLoad(ctx, yfTicker, func(ctx context.Context) (*models.IncomeHistory, error) {
		u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
			y.baseURL, url.PathEscape(yfTicker),
			url.QueryEscape("incomeStatementHistory,incomeStatementHistoryQuarterly"))

		var resp yfSummaryResponse
		if err := y.client.getJSON(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("yfinance financials %s: %w", yfTicker, err)
		}
		if resp.QuoteSummary.Error != nil {
			return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
		}
		if len(resp.QuoteSummary.Result) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return parseIncome(yfTicker, resp.QuoteSummary.Result[0]), nil
	})
}

// Quote returns the valuation fields of the latest quote.
func (y *YFinance) Quote(ctx context.Context, ticker string) (*models.Quote, error) {
	yfTicker := utils.ToYFinanceTicker(ticker)
	if yfTicker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrTickerNotFound)
	}

	return y.quotes.GetOrLoad(ctx, yfTicker, func(ctx context.Context) (*models.Quote, error) {
		u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(yfTicker))

		var resp yfQuoteResponse
		if err := y.client.getJSON(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("yfinance quote %s: %w", yfTicker, err)
		}
		if resp.QuoteResponse.Error != nil {
			return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
		}
		if len(resp.QuoteResponse.Result) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}

		r := resp.QuoteResponse.Result[0]
		ts := y.now()
		if r.RegularMarketTime > 0 {
			ts = time.Unix(r.RegularMarketTime, 0)
		}
		return &models.Quote{
			Ticker:     utils.FromYFinanceTicker(r.Symbol),
			Name:       coalesce(r.ShortName, r.LongName, utils.FromYFinanceTicker(r.Symbol)),
			LastPrice:  r.RegularMarketPrice,
			MarketCap:  r.MarketCap,
			TrailingPE: r.TrailingPE,
			Timestamp:  utils.ToIST(ts),
		}, nil
	})
}

// EvictExpired drops expired cache entries and returns how many went.
func (y *YFinance) EvictExpired() int {
	return y.candles.Cleanup() + y.income.Cleanup() + y.quotes.Cleanup()
}

// --- Helpers ---

func parseYFCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo pads non-trading rows with nulls; a bar without a close is useless here.
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.OHLCV{
			Timestamp: utils.ToIST(time.Unix(ts, 0)),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}

func parseIncome(yfTicker string, r yfSummaryResult) *models.IncomeHistory {
	h := &models.IncomeHistory{
		Ticker:           utils.FromYFinanceTicker(yfTicker),
		AnnualRevenue:    models.YearlySeries{},
		AnnualNetIncome:  models.YearlySeries{},
		QuarterlyRevenue: models.QuarterlySeries{},
	}

	if r.IncomeStatementHistory != nil {
		for _, row := range r.IncomeStatementHistory.Statements {
			end, ok := statementDate(row)
			if !ok {
				continue
			}
			if v, ok := firstRaw(row, "totalRevenue", "operatingRevenue"); ok {
				h.AnnualRevenue[end.Year()] = v
			}
			if v, ok := firstRaw(row, "netIncome", "netIncomeApplicableToCommonShares"); ok {
				h.AnnualNetIncome[end.Year()] = v
			}
		}
	}

	if r.IncomeStatementHistoryQuarterly != nil {
		for _, row := range r.IncomeStatementHistoryQuarterly.Statements {
			end, ok := statementDate(row)
			if !ok {
				continue
			}
			if v, ok := firstRaw(row, "totalRevenue", "operatingRevenue"); ok {
				h.QuarterlyRevenue[utils.QuarterKey(end)] = v
			}
		}
	}
	return h
}

func statementDate(row map[string]yfFinVal) (time.Time, bool) {
	v, ok := row["endDate"]
	if !ok || v.Raw == nil {
		return time.Time{}, false
	}
	return utils.ToIST(time.Unix(int64(*v.Raw), 0)), true
}

// firstRaw returns the first present line item among keys.
func firstRaw(row map[string]yfFinVal, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && v.Raw != nil {
			return *v.Raw, true
		}
	}
	return 0, false
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
