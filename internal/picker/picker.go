// Package picker composes the data sources with the scoring and sentiment
// engines. It is the single entry point used by the HTTP API and the CLI.
package picker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/analysis/fundamental"
	"github.com/seenimoa/stockpicker/internal/analysis/sentiment"
	"github.com/seenimoa/stockpicker/internal/config"
	"github.com/seenimoa/stockpicker/internal/datasource"
	"github.com/seenimoa/stockpicker/internal/screener"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// --- Collaborators ---

// Taxonomy provides the sector to industry map.
type Taxonomy interface {
	Industries(ctx context.Context) (models.SectorMap, error)
	Refresh(ctx context.Context) (models.SectorMap, error)
}

// Screener lists stocks by sector or industry.
type Screener interface {
	Screen(ctx context.Context, kind models.ScreenKind, value string) ([]models.ScreenedStock, error)
	IndustryCaps(ctx context.Context, sector string) (map[string]float64, error)
}

// MarketData provides per-ticker history, income statements and quotes.
type MarketData interface {
	History(ctx context.Context, ticker string, years int) ([]models.OHLCV, error)
	IncomeHistory(ctx context.Context, ticker string) (*models.IncomeHistory, error)
	Quote(ctx context.Context, ticker string) (*models.Quote, error)
}

// ProfileFetcher fetches everything a stock's detail view needs at once.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, ticker string, years int) (*datasource.Profile, error)
}

// NewsFeed provides stock and market headlines.
type NewsFeed interface {
	StockNews(ctx context.Context, stock string) ([]models.NewsArticle, error)
	MarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// Deps groups the collaborators a Service needs.
type Deps struct {
	Taxonomy Taxonomy
	Screener Screener
	Market   MarketData
	Profiles ProfileFetcher
	News     NewsFeed
}

// Options tunes fan-out and history windows.
type Options struct {
	Concurrency   int // parallel per-symbol fetches
	RankYears     int // price history used for divergence ranking
	ChartYears    int // price history shown in the detail view
	ProgressEvery int // report ranking progress every N symbols
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 5
	}
	if o.RankYears < 2 {
		o.RankYears = 3
	}
	if o.ChartYears <= 0 {
		o.ChartYears = 4
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = 5
	}
	return o
}

// Service implements the screener's operations.
type Service struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
}

// New creates a Service.
func New(deps Deps, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{deps: deps, opts: opts.withDefaults(), logger: logger}
}

// NewFromAggregator wires a Service onto the live data sources.
func NewFromAggregator(agg *datasource.Aggregator, cfg *config.Config, logger *zap.Logger) *Service {
	return New(Deps{
		Taxonomy: agg.Taxonomy(),
		Screener: agg.Screener(),
		Market:   agg.YFinance(),
		Profiles: agg,
		News:     agg.News(),
	}, Options{
		Concurrency:   cfg.Analysis.ConcurrentFetches,
		RankYears:     cfg.Analysis.RankHistoryYears,
		ChartYears:    cfg.Analysis.ChartHistoryYears,
		ProgressEvery: cfg.Analysis.ProgressEvery,
	}, logger)
}

// --- Taxonomy and screening ---

// Industries returns the sector to industry map.
func (s *Service) Industries(ctx context.Context) (models.SectorMap, error) {
	m, err := s.deps.Taxonomy.Industries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load industries: %w", err)
	}
	return m, nil
}

// RefreshIndustries rebuilds the taxonomy cache.
func (s *Service) RefreshIndustries(ctx context.Context) error {
	m, err := s.deps.Taxonomy.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh industries: %w", err)
	}
	s.logger.Info("industry map refreshed", zap.Int("sectors", len(m)))
	return nil
}

// IndustryShare is one industry's slice of a sector's market cap.
type IndustryShare struct {
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
	Formatted string  `json:"formatted"`
	SharePct  float64 `json:"share_pct"`
}

// SectorOverview is the per-industry market cap breakdown of a sector,
// largest first.
type SectorOverview struct {
	Sector     string          `json:"sector"`
	TotalCap   float64         `json:"total_cap"`
	Industries []IndustryShare `json:"industries"`
}

// SectorOverview sums market cap per industry within sector.
func (s *Service) SectorOverview(ctx context.Context, sector string) (*SectorOverview, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, fmt.Errorf("%w: sector is required", ErrInvalidInput)
	}
	caps, err := s.deps.Screener.IndustryCaps(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("sector overview %s: %w", sector, err)
	}

	ov := &SectorOverview{Sector: sector, Industries: make([]IndustryShare, 0, len(caps))}
	for ind, c := range caps {
		ov.TotalCap += c
		ov.Industries = append(ov.Industries, IndustryShare{Industry: ind, MarketCap: c, Formatted: utils.FormatCrore(c)})
	}
	sort.Slice(ov.Industries, func(i, j int) bool {
		a, b := ov.Industries[i], ov.Industries[j]
		if a.MarketCap != b.MarketCap {
			return a.MarketCap > b.MarketCap
		}
		return a.Industry < b.Industry
	})
	if ov.TotalCap > 0 {
		for i := range ov.Industries {
			ov.Industries[i].SharePct = ov.Industries[i].MarketCap / ov.TotalCap * 100
		}
	}
	return ov, nil
}

// Screen lists the stocks of a sector or industry, ordered by key. Scores
// is only consulted for the value divergence key and may be nil.
func (s *Service) Screen(ctx context.Context, kind models.ScreenKind, value string, key screener.SortKey, scores map[string]divergence.Result) ([]models.ScreenedStock, error) {
	if kind != models.ScreenBySector && kind != models.ScreenByIndustry {
		return nil, fmt.Errorf("%w: screen type must be sector or industry", ErrInvalidInput)
	}
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: missing 'value' parameter", ErrInvalidInput)
	}
	stocks, err := s.deps.Screener.Screen(ctx, kind, value)
	if err != nil {
		return nil, fmt.Errorf("screen %s %q: %w", kind, value, err)
	}
	if key == "" {
		key = screener.DefaultSort
	}
	return screener.Sort(stocks, key, scores), nil
}

// Relative compares a stock's multiples with the rest of its industry.
func (s *Service) Relative(ctx context.Context, symbol, industry string) ([]fundamental.RelativeMetric, error) {
	yf := utils.ToYFinanceTicker(symbol)
	if yf == "" || strings.TrimSpace(industry) == "" {
		return nil, fmt.Errorf("%w: symbol and industry are required", ErrInvalidInput)
	}
	peers, err := s.deps.Screener.Screen(ctx, models.ScreenByIndustry, industry)
	if err != nil {
		return nil, fmt.Errorf("relative valuation %s: %w", symbol, err)
	}
	for _, p := range peers {
		if strings.EqualFold(p.Symbol, yf) {
			return fundamental.RelativeValuation(p, peers), nil
		}
	}
	return nil, fmt.Errorf("%w: %s not listed in %s", datasource.ErrTickerNotFound, symbol, industry)
}

// --- News ---

// NewsReport is a list of tagged headlines with a label count.
type NewsReport struct {
	Articles []models.TaggedArticle `json:"articles"`
	Summary  sentiment.Summary      `json:"summary"`
}

// StockNews fetches and classifies headlines for one stock.
func (s *Service) StockNews(ctx context.Context, stock string) (*NewsReport, error) {
	if strings.TrimSpace(stock) == "" {
		return nil, fmt.Errorf("%w: stock is required", ErrInvalidInput)
	}
	articles, err := s.deps.News.StockNews(ctx, stock)
	if err != nil {
		return nil, fmt.Errorf("stock news %s: %w", stock, err)
	}
	return newsReport(articles), nil
}

// MarketNews fetches and classifies general market headlines.
func (s *Service) MarketNews(ctx context.Context, limit int) (*NewsReport, error) {
	articles, err := s.deps.News.MarketNews(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("market news: %w", err)
	}
	return newsReport(articles), nil
}

func newsReport(articles []models.NewsArticle) *NewsReport {
	tagged := sentiment.TagArticles(articles)
	return &NewsReport{Articles: tagged, Summary: sentiment.Summarize(tagged)}
}
