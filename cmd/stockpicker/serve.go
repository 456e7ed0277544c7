package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/api"
	"github.com/seenimoa/stockpicker/internal/infra"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, agg := newService()

		sched := infra.NewScheduler(log.Named("scheduler"), utils.IST)
		jobs := []infra.Job{
			{
				Name:    "cache-evict",
				Spec:    cfg.Scheduler.CacheEvictSpec,
				Timeout: time.Minute,
				Run: func(ctx context.Context) error {
					if n := agg.EvictExpired(); n > 0 {
						log.Debug("evicted cache entries", zap.Int("count", n))
					}
					return nil
				},
			},
			{
				Name:    "taxonomy-refresh",
				Spec:    cfg.Scheduler.TaxonomyRefreshSpec,
				Timeout: 30 * time.Minute,
				Run:     svc.RefreshIndustries,
			},
		}
		for _, j := range jobs {
			if err := sched.Add(j); err != nil {
				return err
			}
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()

		srv := api.NewServer(cfg, svc, log.Named("api"), version)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 stockpicker API on http://%s (market %s)\n", addr, utils.MarketStatus())
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}
