package fundamental

import (
	"testing"

	"github.com/seenimoa/stockpicker/pkg/models"
)

func TestBuildSnapshot(t *testing.T) {
	revenue := models.YearlySeries{
		2023: 2_000_000_000_000, // 2,00,000 Cr
		2024: 2_250_000_000_000,
		2022: 1_800_000_000_000,
	}
	profit := models.YearlySeries{
		2023: 400_000_000_000,
		2024: 380_000_000_000,
	}

	s := BuildSnapshot(revenue, profit, 28.456, 13_500_000_000_000)

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"revenue_cr", s.RevenueCr, 225000},
		{"revenue_growth", s.RevenueGrowth, 12.5},
		{"net_profit_cr", s.NetProfitCr, 38000},
		{"profit_growth", s.ProfitGrowth, -5},
		{"pe", s.PE, 28.5},
		{"mcap_cr", s.MarketCapCr, 1350000},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: expected %.1f, got nil", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s: expected %.1f, got %.4f", c.name, c.want, *c.got)
		}
	}
}

func TestBuildSnapshotRounding(t *testing.T) {
	s := BuildSnapshot(models.YearlySeries{2023: 3, 2024: 4}, nil, 0, 0)
	if s.RevenueCr == nil || *s.RevenueCr != 0 {
		t.Errorf("expected revenue 0 Cr, got %v", s.RevenueCr)
	}
	// (4-3)/3 = 33.333...%
	if s.RevenueGrowth == nil || *s.RevenueGrowth != 33.3 {
		t.Errorf("expected growth 33.3, got %v", s.RevenueGrowth)
	}
}

func TestBuildSnapshotMissingData(t *testing.T) {
	s := BuildSnapshot(nil, models.YearlySeries{}, 0, 0)
	if s.RevenueCr != nil || s.RevenueGrowth != nil || s.NetProfitCr != nil ||
		s.ProfitGrowth != nil || s.PE != nil || s.MarketCapCr != nil {
		t.Errorf("expected empty snapshot, got %+v", s)
	}

	// Single year: value but no growth.
	s = BuildSnapshot(models.YearlySeries{2024: 5e9}, nil, 0, 0)
	if s.RevenueCr == nil || *s.RevenueCr != 500 {
		t.Errorf("expected 500 Cr, got %v", s.RevenueCr)
	}
	if s.RevenueGrowth != nil {
		t.Errorf("expected nil growth, got %v", *s.RevenueGrowth)
	}

	// Zero prior year: growth is omitted.
	s = BuildSnapshot(models.YearlySeries{2023: 0, 2024: 5e9}, nil, 0, 0)
	if s.RevenueGrowth != nil {
		t.Errorf("expected nil growth after a zero year, got %v", *s.RevenueGrowth)
	}
}

func TestRelativeValuation(t *testing.T) {
	target := models.ScreenedStock{Symbol: "INFY.NS", TrailingPE: 25, PriceToBook: 7, DividendYield: 2.5}
	peers := []models.ScreenedStock{
		target,
		{Symbol: "TCS.NS", TrailingPE: 30, PriceToBook: 12, DividendYield: 1.8},
		{Symbol: "WIPRO.NS", TrailingPE: 20, PriceToBook: 3.5, DividendYield: 0},
		{Symbol: "TECHM.NS", TrailingPE: 40, PriceToBook: 0, DividendYield: 3},
	}

	metrics := RelativeValuation(target, peers)
	if len(metrics) != 3 {
		t.Fatalf("expected 3 metrics (EV/EBITDA missing), got %d: %+v", len(metrics), metrics)
	}

	pe := metrics[0]
	if pe.Metric != "P/E" {
		t.Fatalf("expected P/E first, got %s", pe.Metric)
	}
	if pe.PeerAvg != 30 || pe.PeerMedian != 30 {
		t.Errorf("expected P/E avg=median=30, got avg=%.2f median=%.2f", pe.PeerAvg, pe.PeerMedian)
	}
	// Cheaper than TCS and TECHM, dearer than WIPRO.
	if pe.Percentile != 66.7 {
		t.Errorf("expected P/E percentile 66.7, got %.1f", pe.Percentile)
	}

	pb := metrics[1]
	if pb.PeerMedian != 7.75 {
		t.Errorf("expected P/B median 7.75, got %.2f", pb.PeerMedian)
	}

	div := metrics[2]
	if div.Metric != "Dividend Yield" || div.Percentile != 50 {
		t.Errorf("expected dividend percentile 50, got %+v", div)
	}
}

func TestRelativeValuationNoPeers(t *testing.T) {
	metrics := RelativeValuation(models.ScreenedStock{Symbol: "X.NS", TrailingPE: 10}, nil)
	if metrics == nil || len(metrics) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", metrics)
	}
}
