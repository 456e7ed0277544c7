// Package divergence compares how a company's revenue and its share price
// have moved over the same fiscal years. Revenue that grows faster than the
// price hints at an undervalued stock, and the reverse hints at an
// overvalued one.
package divergence

import (
	"fmt"
	"sort"

	"github.com/seenimoa/stockpicker/pkg/models"
)

// Signal is the valuation band derived from the latest year-over-year gap.
type Signal string

const (
	Undervalued      Signal = "undervalued"
	Overvalued       Signal = "overvalued"
	FairValue        Signal = "fair-value"
	InsufficientData Signal = "insufficient-data"
)

// bandThreshold is the gap, in percentage points, beyond which a stock
// leaves the fair-value band.
const bandThreshold = 10.0

// Result is the outcome of comparing a revenue series with a price series.
// RevenueIndex and PriceIndex are rebased to 100 at CommonYears[0] and have
// the same length as CommonYears.
type Result struct {
	CommonYears      []int     `json:"common_years"`
	RevenueIndex     []float64 `json:"revenue_index"`
	PriceIndex       []float64 `json:"price_index"`
	Score            float64   `json:"score"`
	Signal           Signal    `json:"signal"`
	RevenueChangePct float64   `json:"revenue_change_pct"`
	PriceChangePct   float64   `json:"price_change_pct"`
	Gap              float64   `json:"gap"`
}

// HasScore reports whether Score is meaningful. It is false whenever fewer
// than two common years were available.
func (r Result) HasScore() bool {
	return len(r.CommonYears) >= 2
}

// Note renders the latest year-over-year changes, e.g.
// "Rev +12.5%  vs  Price -3.0%".
func (r Result) Note() string {
	return fmt.Sprintf("Rev %+.1f%%  vs  Price %+.1f%%", r.RevenueChangePct, r.PriceChangePct)
}

// Score rebases both series to 100 at the first common year and sums the
// per-year difference between the revenue and price indices. The base year
// always indexes to 100, even when its value is zero.
func Score(revenue, price models.YearlySeries) Result {
	years := commonYears(revenue, price)

	switch len(years) {
	case 0:
		return Result{
			CommonYears:  []int{},
			RevenueIndex: []float64{},
			PriceIndex:   []float64{},
			Signal:       InsufficientData,
		}
	case 1:
		return Result{
			CommonYears:  years,
			RevenueIndex: []float64{100},
			PriceIndex:   []float64{100},
			Signal:       InsufficientData,
		}
	}

	revBase := nonZero(revenue[years[0]])
	priceBase := nonZero(price[years[0]])

	res := Result{
		CommonYears:  years,
		RevenueIndex: make([]float64, len(years)),
		PriceIndex:   make([]float64, len(years)),
	}
	res.RevenueIndex[0], res.PriceIndex[0] = 100, 100
	for i := 1; i < len(years); i++ {
		y := years[i]
		res.RevenueIndex[i] = revenue[y] / revBase * 100
		res.PriceIndex[i] = price[y] / priceBase * 100
		res.Score += res.RevenueIndex[i] - res.PriceIndex[i]
	}

	last, prev := years[len(years)-1], years[len(years)-2]
	res.RevenueChangePct = pctChange(revenue[prev], revenue[last])
	res.PriceChangePct = pctChange(price[prev], price[last])
	res.Gap = res.RevenueChangePct - res.PriceChangePct

	switch {
	case res.Gap > bandThreshold:
		res.Signal = Undervalued
	case res.Gap < -bandThreshold:
		res.Signal = Overvalued
	default:
		res.Signal = FairValue
	}
	return res
}

func commonYears(a, b models.YearlySeries) []int {
	years := make([]int, 0, len(a))
	for y := range a {
		if _, ok := b[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// nonZero substitutes 1 for a zero base.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
