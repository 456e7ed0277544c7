package models

import "time"

// NewsArticle represents a single news headline.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	Date        string    `json:"date"` // short display date, e.g. "Jan 02"
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// TaggedArticle is a NewsArticle with its sentiment classification.
type TaggedArticle struct {
	NewsArticle
	Sentiment string   `json:"sentiment"` // "bullish", "bearish" or "neutral"
	Keywords  []string `json:"keywords"`
	Impact    string   `json:"impact"`
}
