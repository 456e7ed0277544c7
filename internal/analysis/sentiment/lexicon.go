package sentiment

import (
	"regexp"
	"sync"
)

// ------------------------------------------------------------------
// Fixed headline lexicon. Phrases are matched as substrings of the
// lower-cased text and weigh 2; single words are matched on word
// boundaries so "risk" never fires inside "brisk" and weigh 1.
// ------------------------------------------------------------------

var bullishPhrases = []string{
	"revenue growth", "profit growth", "strong growth", "record profit",
	"record revenue", "record high", "beats estimates", "beats expectations",
	"above expectations", "better than expected", "strong results",
	"strong earnings", "strong demand", "market share gain",
	"order win", "new contract", "strategic partnership",
	"strategic acquisition", "share buyback", "dividend hike",
	"dividend increase", "price target raised", "rating upgrade",
	"upgraded to buy", "positive outlook", "guidance raised",
	"raises guidance", "all-time high", "debt reduction",
	"margin expansion", "margin improvement", "stake increase",
	"fund inflow", "net profit up", "net profit rose",
	"net profit jumped", "top line growth", "bottom line growth",
}

var bearishPhrases = []string{
	"net loss", "revenue decline", "revenue miss", "profit decline",
	"missed estimates", "missed expectations", "below expectations",
	"worse than expected", "weak results", "weak earnings",
	"weak demand", "market share loss", "order cancellation",
	"rating downgrade", "downgraded to sell", "negative outlook",
	"guidance cut", "lowers guidance", "guidance lowered",
	"debt concern", "debt burden", "high debt", "rising debt",
	"margin pressure", "margin contraction", "stake sale",
	"fund outflow", "net profit fell", "net profit declined",
	"price target cut", "price target lowered", "under investigation",
	"regulatory action", "penalty imposed", "consent order",
	"profit warning", "earnings miss", "layoff announced",
}

var bullishWords = []string{
	"growth", "profit", "expansion", "acquisition", "partnership",
	"dividend", "upgrade", "milestone", "innovation", "launch",
	"beats", "surpass", "breakthrough", "bullish", "rally",
	"buyback", "outperform", "recovery", "boost", "gains",
	"soars", "surges", "jumps", "climbs", "rises",
}

var bearishWords = []string{
	"loss", "losses", "debt", "downgrade", "restructuring",
	"layoffs", "fraud", "penalty", "decline", "investigation",
	"lawsuit", "default", "recall", "warning", "bearish",
	"crash", "impairment", "underperform", "plunges", "tumbles",
	"slumps", "plummets", "tanks", "sinks", "slides",
}

// negationMarkers flip a phrase match when found in the window before it.
// They never apply to single words.
var negationMarkers = []string{"no ", "not ", "without ", "lack of ", "failed to ", "unable to "}

// negationWindow is the number of characters inspected before a phrase.
const negationWindow = 15

// wordPattern pairs a lexicon word with its compiled boundary pattern.
type wordPattern struct {
	word string
	re   *regexp.Regexp
}

type wordTable struct {
	bullish []wordPattern
	bearish []wordPattern
}

var (
	patternsOnce sync.Once
	patterns     wordTable
)

// wordPatterns returns the compiled single-word table, building it on first use.
func wordPatterns() wordTable {
	patternsOnce.Do(func() {
		patterns = wordTable{
			bullish: compileWords(bullishWords),
			bearish: compileWords(bearishWords),
		}
	})
	return patterns
}

// nonWord matches one rune outside the Unicode word class (letters, digits
// and underscore). RE2's \b only knows ASCII word characters.
const nonWord = `[^\p{L}\p{N}_]`

func compileWords(words []string) []wordPattern {
	out := make([]wordPattern, 0, len(words))
	for _, w := range words {
		out = append(out, wordPattern{
			word: w,
			re:   regexp.MustCompile(`(?i)(?:^|` + nonWord + `)` + regexp.QuoteMeta(w) + `(?:` + nonWord + `|$)`),
		})
	}
	return out
}
