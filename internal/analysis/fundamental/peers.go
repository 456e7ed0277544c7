package fundamental

import (
	"sort"

	"github.com/seenimoa/stockpicker/pkg/models"
)

// RelativeMetric places one valuation metric of a stock against its peers.
type RelativeMetric struct {
	Metric      string  `json:"metric"`
	TargetValue float64 `json:"target_value"`
	PeerAvg     float64 `json:"peer_avg"`
	PeerMedian  float64 `json:"peer_median"`
	Percentile  float64 `json:"percentile"` // 0-100, share of peers the target beats
}

type metricExtractor struct {
	name string
	fn   func(models.ScreenedStock) float64
	// lowerBetter is true for multiples (P/E, P/B, EV/EBITDA).
	lowerBetter bool
}

var extractors = []metricExtractor{
	{"P/E", func(s models.ScreenedStock) float64 { return s.TrailingPE }, true},
	{"P/B", func(s models.ScreenedStock) float64 { return s.PriceToBook }, true},
	{"EV/EBITDA", func(s models.ScreenedStock) float64 { return s.EVToEBITDA }, true},
	{"Dividend Yield", func(s models.ScreenedStock) float64 { return s.DividendYield }, false},
}

// RelativeValuation compares the target's screener multiples with those of
// its industry peers. Metrics the target lacks, or no peer reports, are
// skipped. Peers with a zero or negative value are ignored.
func RelativeValuation(target models.ScreenedStock, peers []models.ScreenedStock) []RelativeMetric {
	results := []RelativeMetric{}

	for _, ext := range extractors {
		tv := ext.fn(target)
		if tv <= 0 {
			continue
		}

		var vals []float64
		for _, p := range peers {
			if p.Symbol == target.Symbol {
				continue
			}
			if v := ext.fn(p); v > 0 {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}

		beaten := 0
		for _, v := range vals {
			if (ext.lowerBetter && v > tv) || (!ext.lowerBetter && v < tv) {
				beaten++
			}
		}

		results = append(results, RelativeMetric{
			Metric:      ext.name,
			TargetValue: tv,
			PeerAvg:     round(avgFloat(vals), 2),
			PeerMedian:  round(medianFloat(vals), 2),
			Percentile:  round(float64(beaten)/float64(len(vals))*100, 1),
		})
	}
	return results
}

func avgFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func medianFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
