package picker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/datasource"
	"github.com/seenimoa/stockpicker/pkg/models"
)

// Progress reports how far a ranking run has got.
type Progress struct {
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// DivergenceScores scores every symbol's revenue growth against its price
// growth. Symbols whose data cannot be fetched get an insufficient-data
// result; only a cancelled context fails the call.
func (s *Service) DivergenceScores(ctx context.Context, symbols []string, progress ProgressFunc) (map[string]divergence.Result, error) {
	results := make(map[string]divergence.Result, len(symbols))
	total := len(symbols)
	if total == 0 {
		return results, nil
	}

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, sym := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.scoreSymbol(gctx, sym)

			mu.Lock()
			defer mu.Unlock()
			results[sym] = res
			done++
			if progress != nil && (done%s.opts.ProgressEvery == 0 || done == total) {
				progress(Progress{
					Done:    done,
					Total:   total,
					Message: fmt.Sprintf("Computing value scores... %d/%d", done, total),
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("divergence scores: %w", err)
	}
	return results, nil
}

func (s *Service) scoreSymbol(ctx context.Context, symbol string) divergence.Result {
	revenue, price, err := s.rankInputs(ctx, symbol)
	if err != nil {
		s.logger.Debug("divergence inputs unavailable", zap.String("symbol", symbol), zap.Error(err))
		return divergence.Score(nil, nil)
	}
	return divergence.Score(revenue, price)
}

func (s *Service) rankInputs(ctx context.Context, symbol string) (models.YearlySeries, models.YearlySeries, error) {
	inc, err := s.deps.Market.IncomeHistory(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	candles, err := s.deps.Market.History(ctx, symbol, s.opts.RankYears)
	if err != nil {
		return nil, nil, err
	}
	return inc.AnnualRevenue, datasource.YearlyAverageClose(candles), nil
}
