package divergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockpicker/pkg/models"
)

func TestScoreUndervalued(t *testing.T) {
	res := Score(
		models.YearlySeries{2021: 100, 2022: 150},
		models.YearlySeries{2021: 50, 2022: 55},
	)

	assert.Equal(t, []int{2021, 2022}, res.CommonYears)
	assert.InDeltaSlice(t, []float64{100, 150}, res.RevenueIndex, 1e-9)
	assert.InDeltaSlice(t, []float64{100, 110}, res.PriceIndex, 1e-9)
	assert.InDelta(t, 40, res.Score, 1e-9)
	assert.InDelta(t, 50, res.RevenueChangePct, 1e-9)
	assert.InDelta(t, 10, res.PriceChangePct, 1e-9)
	assert.InDelta(t, 40, res.Gap, 1e-9)
	assert.Equal(t, Undervalued, res.Signal)
	assert.True(t, res.HasScore())
}

func TestScoreZeroBaseYear(t *testing.T) {
	res := Score(
		models.YearlySeries{2021: 0, 2022: 100},
		models.YearlySeries{2021: 10, 2022: 10},
	)

	// The base year stays at 100; later years divide by 1 in place of zero.
	assert.InDeltaSlice(t, []float64{100, 10000}, res.RevenueIndex, 1e-9)
	assert.InDeltaSlice(t, []float64{100, 100}, res.PriceIndex, 1e-9)
	assert.InDelta(t, 9900, res.Score, 1e-9)
	// Growth from a zero year is reported as 0.
	assert.Zero(t, res.RevenueChangePct)
	assert.Equal(t, FairValue, res.Signal)
}

func TestScoreZeroBaseBothSeries(t *testing.T) {
	res := Score(
		models.YearlySeries{2020: 0, 2021: 5, 2022: 0},
		models.YearlySeries{2020: 0, 2021: 2, 2022: 4},
	)

	require.Len(t, res.RevenueIndex, 3)
	assert.Equal(t, 100.0, res.RevenueIndex[0])
	assert.Equal(t, 100.0, res.PriceIndex[0])
	assert.InDeltaSlice(t, []float64{100, 500, 0}, res.RevenueIndex, 1e-9)
	assert.InDeltaSlice(t, []float64{100, 200, 400}, res.PriceIndex, 1e-9)
	assert.InDelta(t, -100, res.Score, 1e-9)
}

func TestScoreSignalBands(t *testing.T) {
	tests := []struct {
		name    string
		revenue models.YearlySeries
		price   models.YearlySeries
		want    Signal
	}{
		{"price outruns revenue", models.YearlySeries{2022: 100, 2023: 100}, models.YearlySeries{2022: 100, 2023: 150}, Overvalued},
		{"moving together", models.YearlySeries{2022: 100, 2023: 120}, models.YearlySeries{2022: 100, 2023: 115}, FairValue},
		{"gap of exactly ten", models.YearlySeries{2022: 100, 2023: 120}, models.YearlySeries{2022: 100, 2023: 110}, FairValue},
		{"revenue outruns price", models.YearlySeries{2022: 100, 2023: 130}, models.YearlySeries{2022: 100, 2023: 105}, Undervalued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.revenue, tt.price).Signal)
		})
	}
}

func TestScoreBandsUseLastTwoYears(t *testing.T) {
	// Revenue tripled early on but fell in the last year while the price held.
	res := Score(
		models.YearlySeries{2020: 100, 2021: 300, 2022: 240},
		models.YearlySeries{2020: 100, 2021: 100, 2022: 100},
	)
	require.Len(t, res.CommonYears, 3)
	assert.InDelta(t, 0+200+140, res.Score, 1e-9)
	assert.InDelta(t, -20, res.Gap, 1e-9)
	assert.Equal(t, Overvalued, res.Signal)
}

func TestScoreIntersectsYears(t *testing.T) {
	res := Score(
		models.YearlySeries{2023: 120, 2020: 90, 2022: 100},
		models.YearlySeries{2021: 10, 2022: 20, 2023: 22, 2024: 30},
	)
	assert.Equal(t, []int{2022, 2023}, res.CommonYears)
	assert.Len(t, res.RevenueIndex, 2)
	assert.Len(t, res.PriceIndex, 2)
}

func TestScoreInsufficientData(t *testing.T) {
	one := Score(models.YearlySeries{2023: 500}, models.YearlySeries{2023: 42})
	assert.Equal(t, InsufficientData, one.Signal)
	assert.Equal(t, []int{2023}, one.CommonYears)
	assert.Equal(t, []float64{100}, one.RevenueIndex)
	assert.Equal(t, []float64{100}, one.PriceIndex)
	assert.False(t, one.HasScore())

	none := Score(models.YearlySeries{2021: 1}, models.YearlySeries{2023: 1})
	assert.Equal(t, InsufficientData, none.Signal)
	assert.Empty(t, none.CommonYears)
	assert.NotNil(t, none.RevenueIndex)
	assert.False(t, none.HasScore())

	empty := Score(models.YearlySeries{}, nil)
	assert.Equal(t, InsufficientData, empty.Signal)
}

func TestNote(t *testing.T) {
	res := Result{RevenueChangePct: 12.46, PriceChangePct: -3}
	assert.Equal(t, "Rev +12.5%  vs  Price -3.0%", res.Note())
}

func TestRank(t *testing.T) {
	scored := func(score float64) Result {
		return Result{CommonYears: []int{2022, 2023}, Score: score}
	}
	ranked := Rank(map[string]Result{
		"INFY.NS":    scored(-15),
		"TCS.NS":     scored(30),
		"WIPRO.NS":   {Signal: InsufficientData},
		"HCLTECH.NS": scored(30),
		"LTIM.NS":    {CommonYears: []int{2023}, Signal: InsufficientData},
		"TECHM.NS":   scored(5),
	})

	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Symbol
	}
	assert.Equal(t, []string{"HCLTECH.NS", "TCS.NS", "TECHM.NS", "INFY.NS", "LTIM.NS", "WIPRO.NS"}, got)
}
