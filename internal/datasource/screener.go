package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/stockpicker/internal/infra"
	"github.com/seenimoa/stockpicker/pkg/models"
)

const (
	sectorScreenSize   = 250
	industryScreenSize = 100
)

// Screener lists NSE equities by sector or industry through the Yahoo
// Finance equity screener.
type Screener struct {
	client  *Client
	baseURL string
	cache   *infra.Cache[[]models.ScreenedStock]
}

// NewScreener creates a Yahoo screener source. An empty baseURL selects
// DefaultYahooBaseURL.
func NewScreener(client *Client, baseURL string, ttl time.Duration) *Screener {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &Screener{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   infra.NewCache[[]models.ScreenedStock](ttl),
	}
}

// Name returns the data source name.
func (s *Screener) Name() string { return "Yahoo Screener" }

// --- Query builder ---

// Query is a node of the screener's boolean filter tree.
type Query struct {
	Operator string `json:"operator"`
	Operands []any  `json:"operands"`
}

// Eq matches field == value.
func Eq(field, value string) Query {
	return Query{Operator: "eq", Operands: []any{field, value}}
}

// IsIn matches field against any of values. The screener has no native
// set operator, so it is sent as an OR of equalities.
func IsIn(field string, values ...string) Query {
	ops := make([]any, 0, len(values))
	for _, v := range values {
		ops = append(ops, Eq(field, v))
	}
	return Query{Operator: "or", Operands: ops}
}

// And combines queries.
func And(qs ...Query) Query {
	ops := make([]any, 0, len(qs))
	for _, q := range qs {
		ops = append(ops, q)
	}
	return Query{Operator: "and", Operands: ops}
}

// NSEQuery builds the filter for Indian NSE-listed stocks in one sector or industry.
func NSEQuery(kind models.ScreenKind, value string) Query {
	return And(
		Eq("region", "in"),
		Eq(string(kind), value),
		IsIn("exchange", "NSI"),
	)
}

type screenerRequest struct {
	Offset     int    `json:"offset"`
	Size       int    `json:"size"`
	SortField  string `json:"sortField"`
	SortType   string `json:"sortType"`
	QuoteType  string `json:"quoteType"`
	Query      Query  `json:"query"`
	UserID     string `json:"userId"`
	UserIDType string `json:"userIdType"`
}

type screenerResponse struct {
	Finance struct {
		Result []struct {
			Total  int             `json:"total"`
			Quotes []yfQuoteResult `json:"quotes"`
		} `json:"result"`
		Error *yfError `json:"error"`
	} `json:"finance"`
}

// --- Public methods ---

// Screen returns the stocks of one sector or industry, largest market cap first.
func (s *Screener) Screen(ctx context.Context, kind models.ScreenKind, value string) ([]models.ScreenedStock, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("screen %s: empty value", kind)
	}
	size := sectorScreenSize
	switch kind {
	case models.ScreenBySector:
	case models.ScreenByIndustry:
		size = industryScreenSize
	default:
		return nil, fmt.Errorf("screen: unknown kind %q", kind)
	}

	cacheKey := string(kind) + ":" + value
	return s.cache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) ([]models.ScreenedStock, error) {
		req := screenerRequest{
			Size:       size,
			SortField:  "intradaymarketcap",
			SortType:   "DESC",
			QuoteType:  "EQUITY",
			Query:      NSEQuery(kind, value),
			UserIDType: "guid",
		}
		u := s.baseURL + "/v1/finance/screener?lang=en-US&region=IN&formatted=false&corsDomain=finance.yahoo.com"

		body, err := s.client.doPostJSON(ctx, u, req, map[string]string{"Accept": "application/json"})
		if err != nil {
			return nil, fmt.Errorf("yahoo screener %s=%s: %w", kind, value, err)
		}
		defer body.Close()

		var resp screenerResponse
		if err := json.NewDecoder(body).Decode(&resp); err != nil {
			return nil, fmt.Errorf("decode screener response: %w", err)
		}
		if resp.Finance.Error != nil {
			return nil, fmt.Errorf("yahoo screener error: %s", resp.Finance.Error.Description)
		}
		if len(resp.Finance.Result) == 0 {
			return []models.ScreenedStock{}, nil
		}

		quotes := resp.Finance.Result[0].Quotes
		stocks := make([]models.ScreenedStock, 0, len(quotes))
		for _, q := range quotes {
			stocks = append(stocks, toScreenedStock(q))
		}
		return stocks, nil
	})
}

// IndustryCaps sums market capitalisation per industry within a sector.
func (s *Screener) IndustryCaps(ctx context.Context, sector string) (map[string]float64, error) {
	stocks, err := s.Screen(ctx, models.ScreenBySector, sector)
	if err != nil {
		return nil, err
	}
	return SumByIndustry(stocks), nil
}

// EvictExpired drops expired cache entries.
func (s *Screener) EvictExpired() int {
	return s.cache.Cleanup()
}

// SumByIndustry totals market cap per industry; blank industries count as "Unknown".
func SumByIndustry(stocks []models.ScreenedStock) map[string]float64 {
	caps := make(map[string]float64)
	for _, st := range stocks {
		ind := coalesce(st.Industry, "Unknown")
		caps[ind] += st.MarketCap
	}
	return caps
}

func toScreenedStock(q yfQuoteResult) models.ScreenedStock {
	dy := q.DividendYield
	// Some responses carry the yield as a fraction rather than a percentage.
	if dy != 0 && dy < 1 {
		dy *= 100
	}
	return models.ScreenedStock{
		Symbol:        q.Symbol,
		Name:          coalesce(q.ShortName, q.LongName, strings.TrimSuffix(q.Symbol, ".NS")),
		Sector:        q.Sector,
		Industry:      q.Industry,
		MarketCap:     q.MarketCap,
		CurrentPrice:  q.RegularMarketPrice,
		TrailingPE:    q.TrailingPE,
		ForwardPE:     q.ForwardPE,
		PriceToBook:   q.PriceToBook,
		DividendYield: dy,
		EVToEBITDA:    q.EnterpriseToEbitda,
	}
}
