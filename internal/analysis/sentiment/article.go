package sentiment

import (
	"github.com/seenimoa/stockpicker/pkg/models"
)

// TagArticle classifies an article by its headline and attaches the impact note.
func TagArticle(article models.NewsArticle) models.TaggedArticle {
	res := Classify(article.Title)
	return models.TaggedArticle{
		NewsArticle: article,
		Sentiment:   string(res.Label),
		Keywords:    res.Terms,
		Impact:      BuildImpactNote(res.Label, res.Terms, article.Title),
	}
}

// TagArticles tags every article, preserving order.
func TagArticles(articles []models.NewsArticle) []models.TaggedArticle {
	out := make([]models.TaggedArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, TagArticle(a))
	}
	return out
}

// Summary counts tagged articles per label.
type Summary struct {
	Total   int   `json:"total"`
	Bullish int   `json:"bullish"`
	Bearish int   `json:"bearish"`
	Neutral int   `json:"neutral"`
	Overall Label `json:"overall"`
}

// Summarize counts labels and picks the overall tone: the side with more
// articles wins, ties and empty input are neutral.
func Summarize(articles []models.TaggedArticle) Summary {
	s := Summary{Total: len(articles), Overall: Neutral}
	for _, a := range articles {
		switch Label(a.Sentiment) {
		case Bullish:
			s.Bullish++
		case Bearish:
			s.Bearish++
		default:
			s.Neutral++
		}
	}
	switch {
	case s.Bullish > s.Bearish:
		s.Overall = Bullish
	case s.Bearish > s.Bullish:
		s.Overall = Bearish
	}
	return s
}
