// Package models defines the core data structures used throughout stockpicker.
package models

import "time"

// ScreenedStock is one row returned by the equity screener.
type ScreenedStock struct {
	Symbol        string  `json:"symbol"`   // e.g., "TCS.NS"
	Name          string  `json:"name"`     // short name, falls back to the bare ticker
	Sector        string  `json:"sector"`   // e.g., "Technology"
	Industry      string  `json:"industry"` // e.g., "Information Technology Services"
	MarketCap     float64 `json:"market_cap"`
	CurrentPrice  float64 `json:"current_price"`
	TrailingPE    float64 `json:"trailing_pe,omitempty"`
	ForwardPE     float64 `json:"forward_pe,omitempty"`
	PriceToBook   float64 `json:"price_to_book,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"` // percent
	EVToEBITDA    float64 `json:"ev_to_ebitda,omitempty"`
}

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Quote holds the valuation fields used by the financial snapshot.
type Quote struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	LastPrice  float64   `json:"last_price"`
	MarketCap  float64   `json:"market_cap"`
	TrailingPE float64   `json:"trailing_pe,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScreenKind selects the screener dimension.
type ScreenKind string

const (
	ScreenBySector   ScreenKind = "sector"
	ScreenByIndustry ScreenKind = "industry"
)

// SectorMap maps a sector to its sorted industries.
type SectorMap map[string][]string

// PriceBar is a daily OHLCV row for charting, dated "2006-01-02".
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
