package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/arnet007/StockSentimentPro/internal/prices"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	return humanize.Comma(n)
}

// FormatCompact formats a large value with B/M/K suffixes.
func FormatCompact(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// CurrencySymbol returns the display prefix for an ISO currency code.
func CurrencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	case "INR":
		return "₹"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "":
		return ""
	}
	return code + " "
}

// FormatPrice formats a price with two decimals and the currency prefix,
// or "-" for zero.
func FormatPrice(p decimal.Decimal, currency string) string {
	if p.IsZero() {
		return "-"
	}
	sign := ""
	if p.IsNegative() {
		sign, p = "-", p.Abs()
	}
	fixed := p.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.'):]
	return sign + CurrencySymbol(currency) + humanize.Comma(p.Round(2).IntPart()) + frac
}

// FormatChange formats a quote's change as "+1.50 (+0.75%)".
func FormatChange(q prices.Quote) string {
	sign := "+"
	if q.Change.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("%s%s (%s%s%%)", sign, q.Change.StringFixed(2), sign, q.ChangePercent.StringFixed(2))
}

// FormatPercent formats a share in percent with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatPolarity formats a polarity with an explicit sign.
func FormatPolarity(p float64) string {
	return fmt.Sprintf("%+.3f", p)
}

// Ago formats t relative to now, e.g. "3 hours ago".
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
