// Package format renders money, distances and dates for templates.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Naira formats a whole-naira amount: Naira(12500000) => "₦12,500,000".
// Kobo are rounded half-up.
func Naira(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n < 0 {
		return "-₦" + thousandSep(-n)
	}
	return "₦" + thousandSep(n)
}

// NairaShort abbreviates large amounts for cards: 12500000 => "₦12.5M", 850000 => "₦850K".
func NairaShort(amount decimal.Decimal) string {
	n := amount.Round(0)
	abs := n.Abs()
	var out string
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		out = trimZero(abs.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(1)) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		out = trimZero(abs.Div(decimal.NewFromInt(1_000_000)).StringFixed(1)) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		out = trimZero(abs.Div(decimal.NewFromInt(1_000)).StringFixed(0)) + "K"
	default:
		out = abs.String()
	}
	if n.IsNegative() {
		return "-₦" + out
	}
	return "₦" + out
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// Mileage formats a distance in kilometres: Mileage(54000) => "54,000 km".
func Mileage(km int64) string {
	if km <= 0 {
		return "0 km"
	}
	return thousandSep(km) + " km"
}

// Percent formats a percentage without trailing zeros: 12.50 => "12.5%".
func Percent(p decimal.Decimal) string {
	return p.String() + "%"
}

// Number groups digits with commas.
func Number(n int64) string {
	if n < 0 {
		return "-" + thousandSep(-n)
	}
	return thousandSep(n)
}

func thousandSep(n int64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(n))
}

// Date formats t the way Nigerian readers expect: "2 Jan 2006".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}
