// Package fundamental condenses income statements and screener valuations
// into the figures shown next to a stock's news.
package fundamental

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockpicker/pkg/models"
)

// crore is 10^7 rupees.
const crore = 1e7

// BuildSnapshot summarizes the latest fiscal year of revenue and net income.
// trailingPE and marketCap are omitted when zero.
func BuildSnapshot(revenue, netIncome models.YearlySeries, trailingPE, marketCap float64) models.FinancialSnapshot {
	var s models.FinancialSnapshot

	s.RevenueCr, s.RevenueGrowth = latestWithGrowth(revenue)
	s.NetProfitCr, s.ProfitGrowth = latestWithGrowth(netIncome)

	if trailingPE != 0 {
		s.PE = ptr(round(trailingPE, 1))
	}
	if marketCap != 0 {
		s.MarketCapCr = ptr(round(marketCap/crore, 0))
	}
	return s
}

// latestWithGrowth returns the latest year's value in crores and its growth
// over the year before. Growth is nil when there is no prior year or the
// prior year is zero.
func latestWithGrowth(series models.YearlySeries) (latestCr, growth *float64) {
	if len(series) == 0 {
		return nil, nil
	}
	years := make([]int, 0, len(series))
	for y := range series {
		years = append(years, y)
	}
	sort.Ints(years)

	last := series[years[len(years)-1]]
	latestCr = ptr(round(last/crore, 0))

	if len(years) >= 2 {
		prev := series[years[len(years)-2]]
		if prev != 0 {
			growth = ptr(round(pctChange(prev, last), 1))
		}
	}
	return latestCr, growth
}

func pctChange(old, new_ float64) float64 {
	if old == 0 {
		return 0
	}
	return (new_ - old) / old * 100
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func ptr(v float64) *float64 { return &v }
