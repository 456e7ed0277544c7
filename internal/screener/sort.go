// Package screener orders screened stocks and renders their list labels.
package screener

import (
	"fmt"
	"sort"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// SortKey identifies one of the stock list orderings.
type SortKey string

const (
	SortValueDivergence SortKey = "value_divergence"
	SortMarketCap       SortKey = "market_cap"
	SortPE              SortKey = "pe"
	SortPB              SortKey = "pb"
	SortDividendYield   SortKey = "dividend_yield"
	SortEVEBITDA        SortKey = "ev_ebitda"
)

// DefaultSort is used when no key is given.
const DefaultSort = SortValueDivergence

// missingMultiple ranks an absent valuation multiple after every real one.
const missingMultiple = 9999

// Option describes a sort key for menus and the API.
type Option struct {
	Key         SortKey `json:"key"`
	Title       string  `json:"title"`
	Explanation string  `json:"explanation"`
}

var options = []Option{
	{SortValueDivergence, "Value Divergence (default)", explainValueDivergence},
	{SortMarketCap, "Market Cap", explainMarketCap},
	{SortPE, "P/E Ratio (low first)", explainPE},
	{SortPB, "P/B Ratio (low first)", explainPB},
	{SortDividendYield, "Dividend Yield (high first)", explainDividendYield},
	{SortEVEBITDA, "EV/EBITDA (low first)", explainEVEBITDA},
}

// Options returns every sort option in menu order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// ParseSortKey resolves a key or a menu title. An empty string yields the
// default key.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return DefaultSort, nil
	}
	for _, o := range options {
		if string(o.Key) == s || o.Title == s {
			return o.Key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort returns a copy of stocks ordered by key. The sort is stable, so
// stocks that compare equal keep the screener's order. scores is only
// consulted for SortValueDivergence; symbols without a usable score go last.
func Sort(stocks []models.ScreenedStock, key SortKey, scores map[string]divergence.Result) []models.ScreenedStock {
	out := make([]models.ScreenedStock, len(stocks))
	copy(out, stocks)

	var less func(a, b models.ScreenedStock) bool
	switch key {
	case SortMarketCap:
		less = func(a, b models.ScreenedStock) bool { return a.MarketCap > b.MarketCap }
	case SortPE:
		less = func(a, b models.ScreenedStock) bool { return orMissing(a.TrailingPE) < orMissing(b.TrailingPE) }
	case SortPB:
		less = func(a, b models.ScreenedStock) bool { return orMissing(a.PriceToBook) < orMissing(b.PriceToBook) }
	case SortDividendYield:
		less = func(a, b models.ScreenedStock) bool { return a.DividendYield > b.DividendYield }
	case SortEVEBITDA:
		less = func(a, b models.ScreenedStock) bool { return orMissing(a.EVToEBITDA) < orMissing(b.EVToEBITDA) }
	default:
		less = func(a, b models.ScreenedStock) bool {
			sa, oka := scoreOf(scores, a.Symbol)
			sb, okb := scoreOf(scores, b.Symbol)
			if oka != okb {
				return oka
			}
			return oka && sa > sb
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Label renders a stock for the list, e.g. "Tata Consultancy  (TCS)  [P/E: 28.4]".
func Label(s models.ScreenedStock, key SortKey, scores map[string]divergence.Result) string {
	name := s.Name
	if name == "" {
		name = s.Symbol
	}
	return fmt.Sprintf("%s  (%s)%s", name, utils.FromYFinanceTicker(s.Symbol), suffix(s, key, scores))
}

func suffix(s models.ScreenedStock, key SortKey, scores map[string]divergence.Result) string {
	switch key {
	case SortMarketCap:
		return "  [" + utils.FormatCrore(s.MarketCap) + "]"
	case SortPE:
		if s.TrailingPE == 0 {
			return "  [P/E: N/A]"
		}
		return fmt.Sprintf("  [P/E: %.1f]", s.TrailingPE)
	case SortPB:
		if s.PriceToBook == 0 {
			return "  [P/B: N/A]"
		}
		return fmt.Sprintf("  [P/B: %.2f]", s.PriceToBook)
	case SortDividendYield:
		if s.DividendYield == 0 {
			return "  [Div: 0%]"
		}
		return fmt.Sprintf("  [Div: %.2f%%]", s.DividendYield)
	case SortEVEBITDA:
		if s.EVToEBITDA == 0 {
			return "  [EV/E: N/A]"
		}
		return fmt.Sprintf("  [EV/E: %.1f]", s.EVToEBITDA)
	default:
		if score, ok := scoreOf(scores, s.Symbol); ok {
			return fmt.Sprintf("  [VD: %+.0f]", score)
		}
		return "  [VD: N/A]"
	}
}

func scoreOf(scores map[string]divergence.Result, symbol string) (float64, bool) {
	r, ok := scores[symbol]
	if !ok || !r.HasScore() {
		return 0, false
	}
	return r.Score, true
}

func orMissing(v float64) float64 {
	if v == 0 {
		return missingMultiple
	}
	return v
}
