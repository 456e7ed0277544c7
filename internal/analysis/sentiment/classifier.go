// Package sentiment classifies financial news headlines with a fixed
// phrase and word lexicon and explains the outcome in plain language.
//
// The classifier is deterministic and keeps no state between calls, so it
// is safe to call from any goroutine.
package sentiment

import (
	"strings"
)

// Label is the sentiment assigned to a headline.
type Label string

const (
	Bullish Label = "bullish"
	Bearish Label = "bearish"
	Neutral Label = "neutral"
)

// Result is the outcome of classifying one headline.
// Terms lists phrase matches first, then single-word matches, without duplicates.
type Result struct {
	Label Label    `json:"label"`
	Terms []string `json:"terms"`
}

// tally accumulates the weighted score and matched terms for one polarity.
type tally struct {
	score int
	hits  []string
}

func (t *tally) add(term string, weight int) {
	t.score += weight
	t.hits = append(t.hits, term)
}

// addWord scores a single-word match and records the word once.
func (t *tally) addWord(word string) {
	t.score++
	for _, h := range t.hits {
		if strings.EqualFold(h, word) {
			return
		}
	}
	t.hits = append(t.hits, word)
}

// Classify labels a headline as bullish, bearish or neutral and returns the
// lexicon terms that triggered the decision.
func Classify(text string) Result {
	if text == "" {
		return Result{Label: Neutral, Terms: []string{}}
	}

	lower := strings.ToLower(text)
	var bull, bear tally

	// Phase 1: phrases. A negated phrase counts toward the opposite side.
	for _, phrase := range bullishPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		if negatedAt(lower, idx) {
			bear.add("not "+phrase, 2)
		} else {
			bull.add(phrase, 2)
		}
	}
	for _, phrase := range bearishPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		if negatedAt(lower, idx) {
			bull.add("no "+phrase, 2)
		} else {
			bear.add(phrase, 2)
		}
	}

	// Phase 2: single words on word boundaries of the original text.
	table := wordPatterns()
	for _, p := range table.bullish {
		if p.re.MatchString(text) {
			bull.addWord(p.word)
		}
	}
	for _, p := range table.bearish {
		if p.re.MatchString(text) {
			bear.addWord(p.word)
		}
	}

	return decide(bull, bear)
}

// decide applies the tally thresholds. A gap of two points is required
// before one side wins against a non-zero opposing tally.
func decide(bull, bear tally) Result {
	diff := bull.score - bear.score
	switch {
	case diff >= 2:
		return Result{Label: Bullish, Terms: nonNil(bull.hits)}
	case diff <= -2:
		return Result{Label: Bearish, Terms: nonNil(bear.hits)}
	case bull.score > 0 && bear.score == 0:
		return Result{Label: Bullish, Terms: nonNil(bull.hits)}
	case bear.score > 0 && bull.score == 0:
		return Result{Label: Bearish, Terms: nonNil(bear.hits)}
	}

	terms := make([]string, 0, len(bull.hits)+len(bear.hits))
	terms = append(terms, bull.hits...)
	terms = append(terms, bear.hits...)
	return Result{Label: Neutral, Terms: terms}
}

// negatedAt reports whether a negation marker appears within the
// negationWindow characters preceding byte offset idx of lower.
func negatedAt(lower string, idx int) bool {
	before := []rune(lower[:idx])
	if len(before) > negationWindow {
		before = before[len(before)-negationWindow:]
	}
	window := string(before)
	for _, marker := range negationMarkers {
		if strings.Contains(window, marker) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
