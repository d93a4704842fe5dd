package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a raw numeric field to a float64, stripping every
// character except digits, the decimal point, and the minus sign before
// parsing. Currency symbols, thousands separators, and whitespace are
// tolerated; anything that still fails to parse degrades to 0 rather than
// aborting the batch.
//
// Examples:
//
//	ParseAmount("1,234.50")  -> 1234.5
//	ParseAmount("₹ -300.00") -> -300
//	ParseAmount("n/a")       -> 0
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ProfitPercent is profit over revenue as a percentage, defined as 0 when
// revenue is 0 so the ratio never propagates NaN or Inf to a caller.
func ProfitPercent(revenue, profit float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}
