package picker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/analysis/fundamental"
	"github.com/seenimoa/stockpicker/internal/analysis/technical"
	"github.com/seenimoa/stockpicker/internal/datasource"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// Analysis is the detail view of one stock: revenue for the stock and its
// peers, price history, the financial snapshot and the divergence result.
type Analysis struct {
	Symbol           string                            `json:"symbol"`
	AnnualRevenue    map[string]models.YearlySeries    `json:"annual_revenue"`
	QuarterlyRevenue map[string]models.QuarterlySeries `json:"quarterly_revenue"`
	OHLC             []models.PriceBar                 `json:"ohlc"`
	PriceYearly      models.YearlySeries               `json:"price_yearly"`
	PriceQuarterly   models.QuarterlySeries            `json:"price_quarterly"`
	Trend            technical.Trend                   `json:"trend"`
	Financials       models.FinancialSnapshot          `json:"financials"`
	Divergence       divergence.Result                 `json:"divergence"`
}

// Analyze assembles the detail view for symbol. Peers contribute revenue
// series only; a peer that fails to load is left out.
func (s *Service) Analyze(ctx context.Context, symbol string, peers []string) (*Analysis, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: missing 'symbol' parameter", ErrInvalidInput)
	}

	profile, err := s.deps.Profiles.FetchProfile(ctx, symbol, s.opts.ChartYears)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	a := &Analysis{
		Symbol:           symbol,
		AnnualRevenue:    map[string]models.YearlySeries{},
		QuarterlyRevenue: map[string]models.QuarterlySeries{},
		OHLC:             datasource.PriceBars(profile.Candles),
	}
	addRevenue(a, symbol, profile.Income)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, p := range peers {
		p = strings.TrimSpace(p)
		if p == "" || utils.NormalizeTicker(p) == utils.NormalizeTicker(symbol) {
			continue
		}
		g.Go(func() error {
			inc, err := s.deps.Market.IncomeHistory(gctx, p)
			if err != nil {
				s.logger.Debug("peer revenue unavailable", zap.String("peer", p), zap.Error(err))
				return nil
			}
			mu.Lock()
			addRevenue(a, p, inc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	yearly := datasource.YearlyAverageClose(profile.Candles)
	a.PriceYearly = datasource.RoundYearly(yearly, 2)
	a.PriceQuarterly = datasource.RoundQuarterly(datasource.QuarterlyAverageClose(profile.Candles), 2)
	a.Trend = technical.Summarize(profile.Candles)

	var revenue, netIncome models.YearlySeries
	if profile.Income != nil {
		revenue, netIncome = profile.Income.AnnualRevenue, profile.Income.AnnualNetIncome
	}
	var pe, mcap float64
	if profile.Quote != nil {
		pe, mcap = profile.Quote.TrailingPE, profile.Quote.MarketCap
	}
	a.Financials = fundamental.BuildSnapshot(revenue, netIncome, pe, mcap)
	a.Divergence = divergence.Score(revenue, yearly)
	return a, nil
}

func addRevenue(a *Analysis, ticker string, inc *models.IncomeHistory) {
	if inc == nil {
		return
	}
	if len(inc.AnnualRevenue) > 0 {
		a.AnnualRevenue[ticker] = inc.AnnualRevenue
	}
	if len(inc.QuarterlyRevenue) > 0 {
		a.QuarterlyRevenue[ticker] = inc.QuarterlyRevenue
	}
}
