package sentiment

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockpicker/pkg/models"
)

func TestClassifyEmpty(t *testing.T) {
	res := Classify("")
	assert.Equal(t, Neutral, res.Label)
	require.NotNil(t, res.Terms)
	assert.Empty(t, res.Terms)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label Label
		terms []string
	}{
		{"single bullish word", "Company announces growth plan", Bullish, []string{"growth"}},
		{"single word case insensitive", "Shares RALLY after results", Bullish, []string{"rally"}},
		{"bullish phrase and word", "RECORD PROFIT for the quarter", Bullish, []string{"record profit", "profit"}},
		{"gap of two wins against opposing tally", "Record profit despite lawsuit", Bullish, []string{"record profit", "profit"}},
		{"bearish phrase and words", "Net loss widens, shares crash", Bearish, []string{"net loss", "loss", "crash"}},
		{"tie is neutral with bullish first", "Company growth hit by lawsuit", Neutral, []string{"growth", "lawsuit"}},
		{"negated bearish phrase counts bullish", "Firm sees no weak demand ahead", Bullish, []string{"no weak demand"}},
		{"negated bullish phrase counts bearish", "Q3 did not deliver strong results", Bearish, []string{"not strong results"}},
		{"negation outside window", "Not a surprise at all: strong results", Bullish, []string{"strong results"}},
		{"negated phrase with its own bearish word", "no net loss reported", Neutral, []string{"no net loss", "loss"}},
		{"word counted once", "profit profit profit", Bullish, []string{"profit"}},
		{"no lexicon terms", "Board meeting scheduled for Friday", Neutral, []string{}},
		{"whitespace only", "   \t ", Neutral, []string{}},
		{"non-ascii text", "शेयर बाजार आज खुला", Neutral, []string{}},
		{"non-ascii punctuation is a boundary", "«profit» ¡rally!", Bullish, []string{"profit", "rally"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.text)
			assert.Equal(t, tt.label, res.Label)
			assert.Equal(t, tt.terms, res.Terms)
		})
	}
}

func TestClassifyNegationWindowCountsCharacters(t *testing.T) {
	// "not " sits 11 characters (17 bytes) before the phrase.
	res := Classify("not éééééé strong results")
	assert.Equal(t, Bearish, res.Label)
	assert.Equal(t, []string{"not strong results"}, res.Terms)
}

func TestClassifyWordBoundaries(t *testing.T) {
	for _, text := range []string{"a brisk trading session", "Profitable quarter", "overrisky bets", "éprofit", "profité", "Ñcrash", "rally日本", "growth٣"} {
		res := Classify(text)
		assert.Equal(t, Neutral, res.Label, text)
		assert.Empty(t, res.Terms, text)
	}

	words := append(append([]string{}, bullishWords...), bearishWords...)
	for _, w := range words {
		for _, text := range []string{"x" + w + "x", "pre" + w, w + "ed2"} {
			res := Classify(text)
			assert.Empty(t, res.Terms, "%q must not match inside %q", w, text)
		}
	}
}

func TestClassifyEveryWordMatchesAlone(t *testing.T) {
	for _, w := range bullishWords {
		res := Classify("Shares " + strings.ToUpper(w) + " today")
		assert.Equal(t, Bullish, res.Label, w)
		assert.Equal(t, []string{w}, res.Terms, w)
	}
	for _, w := range bearishWords {
		res := Classify("Shares " + w + " today")
		assert.Equal(t, Bearish, res.Label, w)
		assert.Contains(t, res.Terms, w)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	text := "Record profit despite lawsuit"
	first := Classify(text)
	second := Classify(text)
	assert.Equal(t, first, second)
}

func TestClassifyConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := Classify("Net loss widens, shares crash")
			assert.Equal(t, Bearish, res.Label)
		}()
	}
	wg.Wait()
}

func TestLexiconDisjoint(t *testing.T) {
	seen := map[string]bool{}
	for _, list := range [][]string{bullishPhrases, bearishPhrases, bullishWords, bearishWords} {
		for _, term := range list {
			assert.False(t, seen[term], "duplicate lexicon term %q", term)
			seen[term] = true
		}
	}
	assert.Len(t, bullishPhrases, 38)
	assert.Len(t, bearishPhrases, 38)
	assert.Len(t, bullishWords, 25)
	assert.Len(t, bearishWords, 25)
}

// ── Impact notes ──

func TestBuildImpactNote(t *testing.T) {
	tests := []struct {
		name     string
		label    Label
		terms    []string
		contains string
	}{
		{"bullish with terms", Bullish, []string{"record profit", "profit"}, "Key triggers: Record Profit, Profit."},
		{"bullish without terms", Bullish, nil, "positive tone that could support investor confidence"},
		{"bearish with terms", Bearish, []string{"net loss", "loss", "crash"}, "Key concerns: Net Loss, Loss, Crash."},
		{"bearish without terms", Bearish, []string{}, "negative tone that warrants caution"},
		{"neutral with terms", Neutral, []string{"growth", "lawsuit"}, "mixed signals (Growth, Lawsuit)"},
		{"neutral without terms", Neutral, nil, "This news is neutral and does not strongly indicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := BuildImpactNote(tt.label, tt.terms, "headline")
			assert.Contains(t, note, tt.contains)
		})
	}
}

func TestBuildImpactNoteCitesFourTerms(t *testing.T) {
	note := BuildImpactNote(Bullish, []string{"a", "b", "c", "d", "e"}, "")
	assert.Contains(t, note, "Key triggers: A, B, C, D.")
	assert.NotContains(t, note, "E.")
}

func TestBuildImpactNoteIgnoresTitle(t *testing.T) {
	terms := []string{"growth"}
	assert.Equal(t,
		BuildImpactNote(Bullish, terms, "one headline"),
		BuildImpactNote(Bullish, terms, "a completely different headline"))
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"all-time high": "All-Time High",
		"no net loss":   "No Net Loss",
		"GROWTH":        "Growth",
		"3rd quarter":   "3Rd Quarter",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), in)
	}
}

// ── Articles ──

func TestTagArticle(t *testing.T) {
	a := models.NewsArticle{Title: "TCS posts record profit", Source: "Mint", Date: "Jan 02"}
	tagged := TagArticle(a)

	assert.Equal(t, "bullish", tagged.Sentiment)
	assert.Equal(t, []string{"record profit", "profit"}, tagged.Keywords)
	assert.Equal(t, "Mint", tagged.Source)
	assert.Equal(t, "Jan 02", tagged.Date)
	assert.Contains(t, tagged.Impact, "Record Profit")
}

func TestSummarize(t *testing.T) {
	tagged := TagArticles([]models.NewsArticle{
		{Title: "Shares rally"},
		{Title: "Company announces growth plan"},
		{Title: "Net loss widens"},
		{Title: "Board meeting on Friday"},
	})
	require.Len(t, tagged, 4)

	s := Summarize(tagged)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Bullish)
	assert.Equal(t, 1, s.Bearish)
	assert.Equal(t, 1, s.Neutral)
	assert.Equal(t, Bullish, s.Overall)

	assert.Equal(t, Neutral, Summarize(nil).Overall)
}
