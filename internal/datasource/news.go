package datasource

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/internal/infra"
	"github.com/seenimoa/stockpicker/pkg/models"
)

// DefaultGoogleNewsURL is the Google News RSS search endpoint.
const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

// DefaultMarketFeeds lists Indian market RSS feeds used for the market news panel.
var DefaultMarketFeeds = []string{
	"https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms",
	"https://www.moneycontrol.com/rss/marketreports.xml",
	"https://www.livemint.com/rss/markets",
}

const defaultNewsCount = 10

// News fetches stock headlines from Google News and market headlines from
// Indian financial RSS feeds.
type News struct {
	client    *Client
	googleURL string
	feeds     []string
	count     int
	logger    *zap.Logger
	cache     *infra.Cache[[]models.NewsArticle]
}

// NewsOption configures News.
type NewsOption func(*News)

// WithGoogleNewsURL overrides the Google News search endpoint.
func WithGoogleNewsURL(u string) NewsOption {
	return func(n *News) {
		if u != "" {
			n.googleURL = u
		}
	}
}

// WithMarketFeeds replaces the market RSS feed list.
func WithMarketFeeds(feeds []string) NewsOption {
	return func(n *News) { n.feeds = feeds }
}

// WithNewsCount sets how many headlines a stock search returns.
func WithNewsCount(count int) NewsOption {
	return func(n *News) {
		if count > 0 {
			n.count = count
		}
	}
}

// WithNewsLogger sets a logger.
func WithNewsLogger(logger *zap.Logger) NewsOption {
	return func(n *News) { n.logger = logger }
}

// NewNews creates a news source.
func NewNews(client *Client, ttl time.Duration, opts ...NewsOption) *News {
	n := &News{
		client:    client,
		googleURL: DefaultGoogleNewsURL,
		feeds:     DefaultMarketFeeds,
		count:     defaultNewsCount,
		logger:    zap.NewNop(),
		cache:     infra.NewCache[[]models.NewsArticle](ttl),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the data source name.
func (n *News) Name() string { return "Google News" }

// --- Public methods ---

// StockNews searches Google News India for "<stock> NSE stock".
func (n *News) StockNews(ctx context.Context, stock string) ([]models.NewsArticle, error) {
	stock = strings.TrimSpace(stock)
	if stock == "" {
		return []models.NewsArticle{}, nil
	}

	return n.cache.GetOrLoad(ctx, "stock:"+strings.ToLower(stock), func(ctx context.Context) ([]models.NewsArticle, error) {
		u := n.googleURL + "?q=" + url.QueryEscape(stock+" NSE stock") + "&hl=en-IN&gl=IN&ceid=IN:en"

		body, err := n.client.doGet(ctx, u, map[string]string{"Accept": "application/rss+xml, application/xml, text/xml"})
		if err != nil {
			return nil, fmt.Errorf("google news %q: %w", stock, err)
		}
		defer body.Close()

		fp := rss.Parser{}
		feed, err := fp.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse google news RSS: %w", err)
		}

		articles := make([]models.NewsArticle, 0, n.count)
		for _, item := range feed.Items {
			if len(articles) == n.count {
				break
			}
			articles = append(articles, googleArticle(item))
		}
		return articles, nil
	})
}

// MarketNews merges the configured market feeds, newest first. Feeds that
// fail are skipped.
func (n *News) MarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	all, err := n.cache.GetOrLoad(ctx, "market", func(ctx context.Context) ([]models.NewsArticle, error) {
		var merged []models.NewsArticle
		var lastErr error
		for _, feedURL := range n.feeds {
			articles, err := n.fetchFeed(ctx, feedURL)
			if err != nil {
				n.logger.Warn("market feed failed", zap.String("feed", feedURL), zap.Error(err))
				lastErr = err
				continue
			}
			merged = append(merged, articles...)
		}
		if len(merged) == 0 && lastErr != nil {
			return nil, lastErr
		}
		sortArticlesByDate(merged)
		return merged, nil
	})
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.NewsArticle, len(all))
	copy(out, all)
	return out, nil
}

// EvictExpired drops expired cache entries.
func (n *News) EvictExpired() int {
	return n.cache.Cleanup()
}

// --- Internal helpers ---

func (n *News) fetchFeed(ctx context.Context, feedURL string) ([]models.NewsArticle, error) {
	body, err := n.client.doGet(ctx, feedURL, map[string]string{"Accept": "application/rss+xml, application/atom+xml, application/xml, text/xml"})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", feedURL, err)
	}

	source := feed.Title
	if source == "" {
		if u, err := url.Parse(feedURL); err == nil {
			source = strings.TrimPrefix(u.Hostname(), "www.")
		}
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  source,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
			a.Date = a.PublishedAt.Format("Jan 02")
		} else {
			a.Date = truncateRunes(item.Published, 16)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func googleArticle(item *rss.Item) models.NewsArticle {
	a := models.NewsArticle{
		Title:  item.Title,
		URL:    item.Link,
		Source: "Unknown",
	}
	if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
		a.Source = item.Source.Title
	}
	if t, err := time.Parse(time.RFC1123, item.PubDate); err == nil {
		a.PublishedAt = t
		a.Date = t.Format("Jan 02")
	} else {
		a.Date = truncateRunes(item.PubDate, 16)
	}
	return a
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// sortArticlesByDate sorts articles by published date (newest first).
func sortArticlesByDate(articles []models.NewsArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
