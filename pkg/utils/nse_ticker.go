package utils

import (
	"strings"
)

// Common NSE ticker aliases typed by users.
var tickerAliases = map[string]string{
	"RIL":           "RELIANCE",
	"INFOSYS":       "INFY",
	"HDFC BANK":     "HDFCBANK",
	"ICICI BANK":    "ICICIBANK",
	"SBI":           "SBIN",
	"AIRTEL":        "BHARTIARTL",
	"BAJAJ FIN":     "BAJFINANCE",
	"L&T":           "LT",
	"TATA MOTORS":   "TATAMOTORS",
	"TATA STEEL":    "TATASTEEL",
	"HCL TECH":      "HCLTECH",
	"KOTAK":         "KOTAKBANK",
	"AXIS BANK":     "AXISBANK",
	"SUN PHARMA":    "SUNPHARMA",
	"ASIAN PAINTS":  "ASIANPAINT",
	"NESTLE":        "NESTLEIND",
	"ULTRATECH":     "ULTRACEMCO",
	"TECH MAHINDRA": "TECHM",
	"MAHINDRA":      "M&M",
	"ADANI":         "ADANIENT",
	"HUL":           "HINDUNILVR",
	"COAL INDIA":    "COALINDIA",
}

// NormalizeTicker normalizes a user-input ticker to the canonical NSE format.
// It handles aliases, uppercasing, whitespace and the exchange suffix.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common in chat)
	ticker = strings.TrimPrefix(ticker, "$")
	ticker = FromYFinanceTicker(ticker)

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// ToYFinanceTicker converts an NSE ticker to Yahoo Finance format by appending .NS.
// BSE tickers (.BO) are passed through unchanged.
func ToYFinanceTicker(ticker string) string {
	if t := strings.TrimSpace(strings.ToUpper(ticker)); strings.HasSuffix(t, ".BO") {
		return t
	}
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return ""
	}
	return ticker + ".NS"
}

// FromYFinanceTicker strips the .NS or .BO suffix to get the NSE/BSE ticker.
func FromYFinanceTicker(yfTicker string) string {
	yfTicker = strings.TrimSuffix(yfTicker, ".NS")
	yfTicker = strings.TrimSuffix(yfTicker, ".BO")
	return yfTicker
}

// ParseTickerList splits a comma-separated list into Yahoo Finance tickers,
// dropping blanks and duplicates while keeping the input order.
func ParseTickerList(csv string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		t := ToYFinanceTicker(part)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
