package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockpicker/internal/config"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// Aggregator owns every data source and fetches per-stock data from them
// concurrently.
type Aggregator struct {
	yfinance *YFinance
	screener *Screener
	news     *News
	taxonomy *Taxonomy
}

// NewAggregator wires all sources from configuration onto one shared,
// rate-limited HTTP client.
func NewAggregator(cfg *config.Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := NewClient(
		WithTimeout(cfg.Data.HTTPTimeout()),
		WithRateLimit(cfg.Data.RequestsPerSecond, cfg.Data.Burst),
		WithUserAgent(cfg.Data.UserAgent),
		WithLogger(logger.Named("http")),
	)
	ttl := cfg.Analysis.CacheTTLDuration()

	return &Aggregator{
		yfinance: NewYFinance(client, cfg.Data.YahooBaseURL, ttl),
		screener: NewScreener(client, cfg.Data.YahooBaseURL, ttl),
		news: NewNews(client, ttl,
			WithGoogleNewsURL(cfg.News.GoogleNewsURL),
			WithMarketFeeds(cfg.News.MarketFeeds),
			WithNewsCount(cfg.News.Count),
			WithNewsLogger(logger.Named("news")),
		),
		taxonomy: NewTaxonomy(cfg.Data.IndustryCacheFile, cfg.Data.IndustryCacheMaxAge(), logger.Named("taxonomy")),
	}
}

// YFinance returns the Yahoo Finance source for direct access.
func (a *Aggregator) YFinance() *YFinance { return a.yfinance }

// Screener returns the equity screener for direct access.
func (a *Aggregator) Screener() *Screener { return a.screener }

// News returns the news source for direct access.
func (a *Aggregator) News() *News { return a.news }

// Taxonomy returns the sector to industry map source.
func (a *Aggregator) Taxonomy() *Taxonomy { return a.taxonomy }

// Profile is everything fetched for one stock's detail view.
type Profile struct {
	Symbol  string
	Income  *models.IncomeHistory
	Quote   *models.Quote
	Candles []models.OHLCV
}

// FetchProfile fetches income statements, quote and `years` of daily
// history concurrently. A missing quote is tolerated; the call fails only
// when both the income statements and the history are unavailable.
func (a *Aggregator) FetchProfile(ctx context.Context, ticker string, years int) (*Profile, error) {
	symbol := utils.NormalizeTicker(ticker)
	profile := &Profile{Symbol: symbol}

	var mu sync.Mutex
	var errs []error
	fail := func(what string, err error) {
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s: %w", what, err))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		inc, err := a.yfinance.IncomeHistory(gctx, symbol)
		if err != nil {
			fail("income", err)
			return nil // non-fatal
		}
		mu.Lock()
		profile.Income = inc
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		q, err := a.yfinance.Quote(gctx, symbol)
		if err != nil {
			fail("quote", err)
			return nil
		}
		mu.Lock()
		profile.Quote = q
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		candles, err := a.yfinance.History(gctx, symbol, years)
		if err != nil {
			fail("history", err)
			return nil
		}
		mu.Lock()
		profile.Candles = candles
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return profile, err
	}

	if profile.Income == nil && len(profile.Candles) == 0 {
		if len(errs) == 0 {
			return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
		}
		return nil, fmt.Errorf("all sources failed for %s: %w", symbol, errors.Join(errs...))
	}
	return profile, nil
}

// EvictExpired drops expired entries from every source cache.
func (a *Aggregator) EvictExpired() int {
	return a.yfinance.EvictExpired() + a.screener.EvictExpired() + a.news.EvictExpired()
}
