package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/seenimoa/stockpicker/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Data: config.DataConfig{
			YahooBaseURL:      baseURL,
			UserAgent:         "Mozilla/5.0",
			HTTPTimeoutSec:    5,
			RequestsPerSecond: 1000,
			Burst:             1000,
			IndustryCacheFile: filepath.Join(t.TempDir(), "industries_cache.json"),
			IndustryCacheDays: 7,
		},
		Analysis: config.AnalysisConfig{CacheTTL: 60},
		News: config.NewsConfig{
			GoogleNewsURL: baseURL + "/rss/search",
			Count:         10,
		},
	}
}

func TestAggregatorFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/TCS.NS", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartJSON))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/TCS.NS", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(summaryJSON))
	})
	mux.HandleFunc("/v7/finance/quote", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	agg := NewAggregator(testConfig(t, srv.URL), nil)
	p, err := agg.FetchProfile(context.Background(), "tcs", 4)
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if p.Symbol != "TCS" {
		t.Errorf("symbol = %s", p.Symbol)
	}
	if p.Income == nil || p.Income.AnnualRevenue[2024] != 2000 {
		t.Errorf("income missing: %+v", p.Income)
	}
	if len(p.Candles) != 2 {
		t.Errorf("candles = %d", len(p.Candles))
	}
	if p.Quote != nil {
		t.Errorf("quote should be nil when the quote call fails")
	}
}

func TestAggregatorFetchProfileAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	agg := NewAggregator(testConfig(t, srv.URL), nil)
	if _, err := agg.FetchProfile(context.Background(), "TCS", 4); err == nil {
		t.Fatal("expected error when every source fails")
	}
}

func TestAggregatorAccessors(t *testing.T) {
	agg := NewAggregator(testConfig(t, "http://127.0.0.1:1"), nil)
	if agg.YFinance() == nil || agg.Screener() == nil || agg.News() == nil || agg.Taxonomy() == nil {
		t.Fatal("aggregator should expose every source")
	}
	if n := agg.EvictExpired(); n != 0 {
		t.Errorf("EvictExpired on empty caches = %d", n)
	}
}
