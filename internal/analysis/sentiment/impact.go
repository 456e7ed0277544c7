package sentiment

import (
	"fmt"
	"strings"
	"unicode"
)

// maxTriggers is the number of matched terms cited in an impact note.
const maxTriggers = 4

// BuildImpactNote explains a classification in one paragraph.
// The title is accepted so callers can pass the whole article; the
// current templates do not use it.
func BuildImpactNote(label Label, terms []string, title string) string {
	switch label {
	case Bullish:
		if len(terms) > 0 {
			return fmt.Sprintf(
				"This news signals positive momentum. Key triggers: %s. "+
					"Such developments typically indicate business growth, "+
					"improved financials, or market confidence — which can "+
					"support the stock's long-term trajectory.",
				joinTriggers(terms))
		}
		return "This news has a positive tone that could support investor confidence."
	case Bearish:
		if len(terms) > 0 {
			return fmt.Sprintf(
				"This news raises caution. Key concerns: %s. "+
					"These factors may indicate operational challenges, "+
					"financial stress, or governance issues — which could "+
					"put downward pressure on the stock.",
				joinTriggers(terms))
		}
		return "This news has a negative tone that warrants caution for investors."
	default:
		if len(terms) > 0 {
			return fmt.Sprintf(
				"This news contains mixed signals (%s) and does not "+
					"clearly lean positive or negative. The impact on the stock "+
					"is ambiguous — monitor for follow-up developments.",
				joinTriggers(terms))
		}
		return "This news is neutral and does not strongly indicate " +
			"either positive or negative impact on the stock. " +
			"Monitor for follow-up developments."
	}
}

func joinTriggers(terms []string) string {
	if len(terms) > maxTriggers {
		terms = terms[:maxTriggers]
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = titleCase(t)
	}
	return strings.Join(out, ", ")
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "all-time high" becomes "All-Time High".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
