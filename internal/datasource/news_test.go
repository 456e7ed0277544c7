package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/stockpicker/pkg/models"
)

const googleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>"TCS NSE stock" - Google News</title>
<item><title>TCS posts record profit - Mint</title><link>https://example.com/a</link>
<pubDate>Tue, 02 Jan 2024 06:30:00 GMT</pubDate><source url="https://www.livemint.com">Mint</source></item>
<item><title>TCS shares slip</title><link>https://example.com/b</link><pubDate>yesterday around noon IST</pubDate></item>
<item><title>Third</title><link>https://example.com/c</link><pubDate>Wed, 03 Jan 2024 06:30:00 GMT</pubDate></item>
</channel></rss>`

func TestNewsStockNews(t *testing.T) {
	var gotQuery, gotHL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotHL = r.URL.Query().Get("hl")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(googleRSS))
	}))
	defer srv.Close()

	n := NewNews(newTestClient(), time.Minute, WithGoogleNewsURL(srv.URL), WithNewsCount(2))
	articles, err := n.StockNews(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("StockNews: %v", err)
	}

	if gotQuery != "TCS NSE stock" || gotHL != "en-IN" {
		t.Errorf("query q=%q hl=%q", gotQuery, gotHL)
	}
	if len(articles) != 2 {
		t.Fatalf("expected count cap of 2, got %d", len(articles))
	}

	a := articles[0]
	if a.Source != "Mint" || a.Date != "Jan 02" || a.Summary != "" {
		t.Errorf("unexpected first article: %+v", a)
	}
	b := articles[1]
	if b.Source != "Unknown" {
		t.Errorf("source default = %q", b.Source)
	}
	if b.Date != "yesterday around" {
		t.Errorf("unparsable date should be truncated to 16 chars, got %q", b.Date)
	}
}

func TestNewsStockNewsBlank(t *testing.T) {
	n := NewNews(newTestClient(), time.Minute, WithGoogleNewsURL("http://127.0.0.1:1"))
	articles, err := n.StockNews(context.Background(), "  ")
	if err != nil || len(articles) != 0 {
		t.Fatalf("expected empty result, got %v, %v", articles, err)
	}
}

func TestNewsMarketNews(t *testing.T) {
	feedA := `<?xml version="1.0"?><rss version="2.0"><channel><title>ET Markets</title>
<item><title>Sensex rallies</title><link>https://et/a</link><description>&lt;p&gt;Stocks &lt;b&gt;up&lt;/b&gt;&lt;/p&gt;</description>
<pubDate>Tue, 02 Jan 2024 06:30:00 GMT</pubDate></item></channel></rss>`
	feedB := `<?xml version="1.0"?><rss version="2.0"><channel><title></title>
<item><title>Nifty hits record</title><link>https://mc/b</link><pubDate>Wed, 03 Jan 2024 06:30:00 GMT</pubDate></item></channel></rss>`

	mux := http.NewServeMux()
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(feedA)) })
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(feedB)) })
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	n := NewNews(newTestClient(), time.Minute,
		WithMarketFeeds([]string{srv.URL + "/a.xml", srv.URL + "/broken.xml", srv.URL + "/b.xml"}))
	articles, err := n.MarketNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("MarketNews: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Nifty hits record" {
		t.Errorf("expected newest first, got %q", articles[0].Title)
	}
	if articles[0].Source != "127.0.0.1" {
		t.Errorf("source fallback = %q", articles[0].Source)
	}
	if articles[1].Summary != "Stocks up" || articles[1].Source != "ET Markets" {
		t.Errorf("unexpected second article: %+v", articles[1])
	}

	limited, err := n.MarketNews(context.Background(), 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit: %v, %v", limited, err)
	}
}

func TestNewsMarketNewsAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := NewNews(newTestClient(), time.Minute, WithMarketFeeds([]string{srv.URL}))
	if _, err := n.MarketNews(context.Background(), 5); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}

func TestCleanHTML(t *testing.T) {
	if got := cleanHTML("<p>Hello <b>world</b></p>"); got != "Hello world" {
		t.Errorf("cleanHTML = %q", got)
	}
	if got := cleanHTML(""); got != "" {
		t.Errorf("cleanHTML(\"\") = %q", got)
	}
}

func TestSortArticlesByDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	articles := []models.NewsArticle{
		{Title: "old", PublishedAt: base},
		{Title: "new", PublishedAt: base.Add(48 * time.Hour)},
		{Title: "mid", PublishedAt: base.Add(24 * time.Hour)},
	}
	sortArticlesByDate(articles)
	var titles []string
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	if strings.Join(titles, ",") != "new,mid,old" {
		t.Errorf("order = %v", titles)
	}
}
