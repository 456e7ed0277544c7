package divergence

import "sort"

// Ranked pairs a symbol with its divergence result.
type Ranked struct {
	Symbol string `json:"symbol"`
	Result Result `json:"result"`
}

// Rank orders symbols by descending score. Symbols without a score go last
// and ties keep alphabetical order so the output is deterministic.
func Rank(results map[string]Result) []Ranked {
	out := make([]Ranked, 0, len(results))
	for sym, r := range results {
		out = append(out, Ranked{Symbol: sym, Result: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Result.HasScore() != b.Result.HasScore() {
			return a.Result.HasScore()
		}
		if a.Result.HasScore() && a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		return a.Symbol < b.Symbol
	})
	return out
}
