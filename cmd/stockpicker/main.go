// stockpicker screens NSE stocks by sector or industry, ranks them by the
// gap between revenue growth and price growth, and tags related news with
// a bullish, bearish or neutral read.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/stockpicker/internal/config"
	"github.com/seenimoa/stockpicker/internal/datasource"
	"github.com/seenimoa/stockpicker/internal/logger"
	"github.com/seenimoa/stockpicker/internal/picker"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockpicker",
	Short: "NSE value screener with news sentiment",
	Long: `stockpicker lists NSE stocks by sector or industry, ranks them by
value divergence (revenue growth against share price growth) and tags
stock and market headlines as bullish, bearish or neutral.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		log, err = logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(industriesCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(relativeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(classifyCmd)
}

// newService wires the picker onto the live data sources.
func newService() (*picker.Service, *datasource.Aggregator) {
	agg := datasource.NewAggregator(cfg, log.Named("data"))
	return picker.NewFromAggregator(agg, cfg, log.Named("picker")), agg
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockpicker %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show market status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockpicker — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (IST):    %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    API Server:      %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Market data:     %s (%.1f req/s, burst %d)\n", cfg.Data.YahooBaseURL, cfg.Data.RequestsPerSecond, cfg.Data.Burst)
		fmt.Printf("    Industry cache:  %s (%d days)\n", cfg.Data.IndustryCacheFile, cfg.Data.IndustryCacheDays)
		fmt.Printf("    Cache TTL:       %s\n", cfg.Analysis.CacheTTLDuration())
		fmt.Printf("    Fetch workers:   %d\n", cfg.Analysis.ConcurrentFetches)
		fmt.Printf("    News feeds:      %d market + Google News\n", len(cfg.News.MarketFeeds))

		if info, err := os.Stat(cfg.Data.IndustryCacheFile); err == nil {
			fmt.Printf("    Taxonomy built:  %s\n", utils.FormatDateTimeIST(info.ModTime()))
		} else {
			fmt.Println("    Taxonomy built:  never")
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
