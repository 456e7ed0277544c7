package datasource

import (
	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// YearlyAverageClose returns the mean close for each calendar year (IST).
func YearlyAverageClose(candles []models.OHLCV) models.YearlySeries {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, c := range candles {
		y := utils.ToIST(c.Timestamp).Year()
		sums[y] += c.Close
		counts[y]++
	}
	out := make(models.YearlySeries, len(sums))
	for y, s := range sums {
		out[y] = s / float64(counts[y])
	}
	return out
}

// QuarterlyAverageClose returns the mean close per "YYYY-Qn" quarter.
func QuarterlyAverageClose(candles []models.OHLCV) models.QuarterlySeries {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, c := range candles {
		q := utils.QuarterKey(c.Timestamp)
		sums[q] += c.Close
		counts[q]++
	}
	out := make(models.QuarterlySeries, len(sums))
	for q, s := range sums {
		out[q] = s / float64(counts[q])
	}
	return out
}

// RoundYearly rounds every value of s to places decimals.
func RoundYearly(s models.YearlySeries, places int32) models.YearlySeries {
	out := make(models.YearlySeries, len(s))
	for k, v := range s {
		out[k] = roundTo(v, places)
	}
	return out
}

// RoundQuarterly rounds every value of s to places decimals.
func RoundQuarterly(s models.QuarterlySeries, places int32) models.QuarterlySeries {
	out := make(models.QuarterlySeries, len(s))
	for k, v := range s {
		out[k] = roundTo(v, places)
	}
	return out
}

// PriceBars converts candles to chart rows with prices rounded to 2 decimals.
func PriceBars(candles []models.OHLCV) []models.PriceBar {
	bars := make([]models.PriceBar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, models.PriceBar{
			Date:   utils.FormatDateIST(c.Timestamp),
			Open:   roundTo(c.Open, 2),
			High:   roundTo(c.High, 2),
			Low:    roundTo(c.Low, 2),
			Close:  roundTo(c.Close, 2),
			Volume: c.Volume,
		})
	}
	return bars
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
