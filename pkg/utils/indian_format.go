// Package utils provides common utility functions for stockpicker.
package utils

import (
	"fmt"
	"math"
)

// FormatINR formats a number in Indian Rupee format (₹12,34,567.89).
// Uses the Indian numbering system: last 3 digits, then groups of 2.
func FormatINR(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	decPart := amount - float64(intPart)

	formatted := formatIndianNumber(intPart)

	if decPart > 0 {
		decStr := fmt.Sprintf("%.2f", decPart)
		if decStr == "1.00" {
			formatted = formatIndianNumber(intPart+1) + ".00"
		} else {
			formatted += decStr[1:] // skip the leading "0"
		}
	} else {
		formatted += ".00"
	}

	if negative {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// FormatCrore renders a rupee amount for stock lists:
// "₹1.35 L Cr" from one lakh crore up, "₹45,678 Cr" from one crore up,
// plain rupees below that, and "N/A" for zero.
func FormatCrore(amount float64) string {
	if amount == 0 {
		return "N/A"
	}
	cr := ToCrores(amount)
	switch {
	case cr >= 1e5:
		return fmt.Sprintf("₹%.2f L Cr", cr/1e5)
	case cr >= 1:
		return "₹" + formatIndianNumber(int64(math.Round(cr))) + " Cr"
	default:
		return "₹" + formatIndianNumber(int64(math.Round(amount)))
	}
}

// ToCrores converts a raw number to crores.
func ToCrores(amount float64) float64 {
	return amount / 1e7
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// formatIndianNumber formats an integer with Indian grouping (last 3, then 2s).
func formatIndianNumber(n int64) string {
	if n < 0 {
		return "-" + formatIndianNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	length := len(s)

	// Take the last 3 digits
	result := s[length-3:]
	remaining := s[:length-3]

	// Group remaining digits in pairs from right
	for len(remaining) > 0 {
		if len(remaining) > 2 {
			result = remaining[len(remaining)-2:] + "," + result
			remaining = remaining[:len(remaining)-2]
		} else {
			result = remaining + "," + result
			remaining = ""
		}
	}

	return result
}
