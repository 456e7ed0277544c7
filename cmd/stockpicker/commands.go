package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seenimoa/stockpicker/internal/analysis/divergence"
	"github.com/seenimoa/stockpicker/internal/analysis/sentiment"
	"github.com/seenimoa/stockpicker/internal/analysis/technical"
	"github.com/seenimoa/stockpicker/internal/picker"
	"github.com/seenimoa/stockpicker/internal/screener"
	"github.com/seenimoa/stockpicker/pkg/models"
	"github.com/seenimoa/stockpicker/pkg/utils"
)

// commandContext bounds a one-shot command by the API request timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.API.RequestTimeout())
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// --- Industries Command ---

var industriesCmd = &cobra.Command{
	Use:   "industries [sector]",
	Short: "List sectors and industries, or one sector's market cap split",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		svc, _ := newService()

		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			if err := svc.RefreshIndustries(ctx); err != nil {
				return err
			}
		}

		if len(args) == 1 {
			ov, err := svc.SectorOverview(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("🏭 %s — total %s\n\n", ov.Sector, utils.FormatCrore(ov.TotalCap))
			tw := newTable()
			fmt.Fprintln(tw, "INDUSTRY\tMARKET CAP\tSHARE")
			for _, ind := range ov.Industries {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", ind.Industry, ind.Formatted, ind.SharePct)
			}
			return tw.Flush()
		}

		sectors, err := svc.Industries(ctx)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(sectors))
		for s := range sectors {
			names = append(names, s)
		}
		sort.Strings(names)
		for _, s := range names {
			fmt.Printf("%s (%d)\n", s, len(sectors[s]))
			for _, ind := range sectors[s] {
				fmt.Printf("  • %s\n", ind)
			}
		}
		return nil
	},
}

func init() {
	industriesCmd.Flags().Bool("refresh", false, "rebuild the industry map before listing")
}

// --- Screen Command ---

var screenCmd = &cobra.Command{
	Use:   "screen [value]",
	Short: "List the stocks of a sector or industry",
	Long: `List the stocks of a sector or industry in the chosen order.

Examples:
  stockpicker screen Technology
  stockpicker screen "Banks - Regional" --type industry --sort pe
  stockpicker screen Energy --sort value_divergence --score`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		sortFlag, _ := cmd.Flags().GetString("sort")
		score, _ := cmd.Flags().GetBool("score")

		key, err := screener.ParseSortKey(sortFlag)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		svc, _ := newService()

		stocks, err := svc.Screen(ctx, models.ScreenKind(kind), args[0], key, nil)
		if err != nil {
			return err
		}

		var scores map[string]divergence.Result
		if score && key == screener.SortValueDivergence && len(stocks) > 0 {
			syms := make([]string, 0, len(stocks))
			for _, s := range stocks {
				syms = append(syms, s.Symbol)
			}
			scores, err = svc.DivergenceScores(ctx, syms, func(p picker.Progress) {
				fmt.Fprintf(os.Stderr, "\r%s", p.Message)
			})
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			stocks = screener.Sort(stocks, key, scores)
		}

		fmt.Printf("📋 %s %q — %d stocks, sorted by %s\n\n", kind, args[0], len(stocks), key)
		for i, s := range stocks {
			line := screener.Label(s, key, scores)
			if r, ok := scores[s.Symbol]; ok && r.HasScore() {
				line += "  " + r.Note()
			}
			fmt.Printf("%3d. %s\n", i+1, line)
		}
		return nil
	},
}

func init() {
	screenCmd.Flags().String("type", string(models.ScreenBySector), "screen by sector or industry")
	screenCmd.Flags().String("sort", string(screener.DefaultSort), "sort key: value_divergence, market_cap, pe, pb, dividend_yield, ev_ebitda")
	screenCmd.Flags().Bool("score", false, "compute value divergence scores (slow, one fetch per stock)")
}

// --- Relative Command ---

var relativeCmd = &cobra.Command{
	Use:   "relative [symbol] [industry]",
	Short: "Compare a stock's multiples with its industry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		svc, _ := newService()

		metrics, err := svc.Relative(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("⚖️  %s vs %s\n\n", utils.NormalizeTicker(args[0]), args[1])
		tw := newTable()
		fmt.Fprintln(tw, "METRIC\tSTOCK\tPEER AVG\tPEER MEDIAN\tPERCENTILE")
		for _, m := range metrics {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.0f\n", m.Metric, m.TargetValue, m.PeerAvg, m.PeerMedian, m.Percentile)
		}
		return tw.Flush()
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Show revenue, price and value divergence for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		peerList, _ := cmd.Flags().GetString("peers")
		peers := utils.ParseTickerList(peerList)

		ctx, cancel := commandContext(cmd)
		defer cancel()
		svc, _ := newService()

		a, err := svc.Analyze(ctx, args[0], peers)
		if err != nil {
			return err
		}

		fmt.Printf("🔍 %s\n\n", utils.NormalizeTicker(a.Symbol))
		printFinancials(a.Financials)

		fmt.Println("\n  Annual revenue (₹ Cr) vs average close:")
		tw := newTable()
		fmt.Fprintln(tw, "  YEAR\tREVENUE\tAVG CLOSE")
		rev := a.AnnualRevenue[a.Symbol]
		for _, y := range unionYears(rev, a.PriceYearly) {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", y, cellCr(rev, y), cellPrice(a.PriceYearly, y))
		}
		_ = tw.Flush()

		printTrend(a.Trend)

		d := a.Divergence
		fmt.Println()
		if d.HasScore() {
			fmt.Printf("  Value divergence: %+.1f (%s)  %s\n", d.Score, d.Signal, d.Note())
		} else {
			fmt.Printf("  Value divergence: %s\n", d.Signal)
		}

		for _, p := range peers {
			if r, ok := a.AnnualRevenue[p]; ok && len(r) > 0 {
				ys := unionYears(r, nil)
				last := ys[len(ys)-1]
				fmt.Printf("  Peer %-12s revenue %d: %s\n", p, last, utils.FormatCrore(r[last]))
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("peers", "", "comma-separated peer symbols for revenue comparison")
}

func printFinancials(f models.FinancialSnapshot) {
	row := func(label string, v *float64, render func(float64) string) {
		if v == nil {
			fmt.Printf("  %-16s N/A\n", label)
			return
		}
		fmt.Printf("  %-16s %s\n", label, render(*v))
	}
	crores := func(v float64) string { return fmt.Sprintf("₹%.0f", v) }
	row("Revenue (Cr):", f.RevenueCr, crores)
	row("Revenue growth:", f.RevenueGrowth, utils.FormatPct)
	row("Net profit (Cr):", f.NetProfitCr, crores)
	row("Profit growth:", f.ProfitGrowth, utils.FormatPct)
	row("P/E:", f.PE, func(v float64) string { return fmt.Sprintf("%.1f", v) })
	row("Market cap (Cr):", f.MarketCapCr, crores)
}

func printTrend(t technical.Trend) {
	if t.LastClose == 0 {
		return
	}
	fmt.Printf("\n  Last close: %s", utils.FormatINR(t.LastClose))
	if t.SMA200 > 0 {
		fmt.Printf("  SMA200 %s", utils.FormatINR(t.SMA200))
		if t.AboveSMA200 {
			fmt.Print(" (above)")
		} else {
			fmt.Print(" (below)")
		}
	}
	if t.RSI14 > 0 {
		fmt.Printf("  RSI14 %.1f", t.RSI14)
	}
	fmt.Println()
}

func unionYears(a, b models.YearlySeries) []int {
	seen := map[int]bool{}
	var years []int
	for _, s := range []models.YearlySeries{a, b} {
		for y := range s {
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)
	return years
}

func cellCr(s models.YearlySeries, y int) string {
	v, ok := s[y]
	if !ok {
		return "-"
	}
	return utils.FormatCrore(v)
}

func cellPrice(s models.YearlySeries, y int) string {
	v, ok := s[y]
	if !ok {
		return "-"
	}
	return utils.FormatINR(v)
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [stock]",
	Short: "Show sentiment-tagged headlines for a stock or the market",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := commandContext(cmd)
		defer cancel()
		svc, _ := newService()

		var (
			rep *picker.NewsReport
			err error
		)
		if len(args) == 1 {
			rep, err = svc.StockNews(ctx, args[0])
		} else {
			rep, err = svc.MarketNews(ctx, limit)
		}
		if err != nil {
			return err
		}

		s := rep.Summary
		fmt.Printf("📰 %d headlines — %d bullish, %d bearish, %d neutral (overall %s)\n\n",
			s.Total, s.Bullish, s.Bearish, s.Neutral, s.Overall)
		for _, a := range rep.Articles {
			fmt.Printf("%s %s\n", sentimentIcon(a.Sentiment), a.Title)
			fmt.Printf("   %s · %s\n", a.Source, a.Date)
			if a.Impact != "" {
				fmt.Printf("   %s\n", a.Impact)
			}
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 20, "number of market headlines")
}

func sentimentIcon(label string) string {
	switch sentiment.Label(label) {
	case sentiment.Bullish:
		return "🟢"
	case sentiment.Bearish:
		return "🔴"
	default:
		return "⚪"
	}
}

// --- Classify Command ---

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a headline as bullish, bearish or neutral",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		text := strings.Join(args, " ")
		if title == "" {
			title = text
		}

		res := sentiment.Classify(text)
		fmt.Printf("%s %s\n", sentimentIcon(string(res.Label)), res.Label)
		if len(res.Terms) > 0 {
			fmt.Printf("   terms: %s\n", strings.Join(res.Terms, ", "))
		}
		fmt.Printf("   %s\n", sentiment.BuildImpactNote(res.Label, res.Terms, title))
		return nil
	},
}

func init() {
	classifyCmd.Flags().String("title", "", "headline title used in the impact note (default: the text)")
}
