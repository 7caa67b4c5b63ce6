// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/advisor/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the symbol used when none is configured.
const DefaultCurrency = "₹"

// FormatMoney formats an amount with thousands separators and at most two
// decimals, dropping a zero fraction. e.g., 1234.5 -> "₹1,234.5", 500 -> "₹500"
func FormatMoney(d decimal.Decimal, symbol string) string {
	return formatMoney(d.Round(2), symbol, false)
}

// FormatAmount formats an amount with exactly two decimals. e.g., 12 -> "₹12.00"
func FormatAmount(d decimal.Decimal, symbol string) string {
	return formatMoney(d.Round(2), symbol, true)
}

// FormatSigned formats a transaction amount with its direction. e.g., "-₹120.00"
func FormatSigned(d decimal.Decimal, t model.TransactionType, symbol string) string {
	sign := "-"
	if t == model.TransactionIncome {
		sign = "+"
	}
	return sign + FormatAmount(d.Abs(), symbol)
}

func formatMoney(d decimal.Decimal, symbol string, fixed bool) string {
	if d.IsNegative() {
		return "-" + formatMoney(d.Neg(), symbol, fixed)
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = FormatNumber(n)
	}
	if !fixed {
		frac = strings.TrimRight(frac, "0")
	}
	if frac == "" {
		return symbol + intPart
	}
	return symbol + intPart + "." + frac
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a whole percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatDate formats a calendar date. e.g., "Oct 19, 2026"
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// FormatTime formats a timestamp as a local calendar date.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

// FormatDaysLeft describes a countdown, or past once it has run out.
func FormatDaysLeft(days int, past string) string {
	switch {
	case days <= 0:
		return past
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// Deref returns *s, or fallback when s is nil or empty.
func Deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
