// Package loan derives the financing breakdown shown on car pages from the
// figures precomputed by the marketplace API. Only the down payment is
// computed locally; everything else is copied from the selected tenure.
package loan

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"autohub.ng/autohub-web/internal/api"
)

var hundred = decimal.NewFromInt(100)

// Tenure is one selectable repayment duration.
type Tenure struct {
	Key    string
	Months int // 0 when the key does not encode a month count
	Label  string
}

// Breakdown is the rendered financing summary for one tenure.
type Breakdown struct {
	Tenure             Tenure
	Price              decimal.Decimal
	DownPaymentPercent decimal.Decimal
	DownPayment        decimal.Decimal
	LoanAmount         decimal.Decimal
	MonthlyPayment     decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalPayable       decimal.Decimal
}

// Tenures lists the tenures of l in display order: ascending month count, keys without a
// month count last, ties broken lexically. Go maps have no order, so this ordering is what
// makes DefaultTenure deterministic.
func Tenures(l api.Loan) []Tenure {
	if l.Precomputed == nil || len(l.Precomputed.Tenures) == 0 {
		return nil
	}
	out := make([]Tenure, 0, len(l.Precomputed.Tenures))
	for key := range l.Precomputed.Tenures {
		months := MonthsFromKey(key)
		out = append(out, Tenure{Key: key, Months: months, Label: label(key, months)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Months > 0 && b.Months > 0 && a.Months != b.Months:
			return a.Months < b.Months
		case a.Months > 0 && b.Months == 0:
			return true
		case a.Months == 0 && b.Months > 0:
			return false
		}
		return a.Key < b.Key
	})
	return out
}

// DefaultTenure picks the shortest tenure. With the standard 6/12/18/24/36 month offers this
// is always "m_6" when present. Returns "" when no tenure is offered.
func DefaultTenure(l api.Loan) string {
	ts := Tenures(l)
	if len(ts) == 0 {
		return ""
	}
	return ts[0].Key
}

// Available reports whether a loan section should be rendered at all.
func Available(l api.Loan) bool {
	return l.Available && l.Precomputed != nil && len(l.Precomputed.Tenures) > 0
}

// Calculate returns the breakdown for tenureKey, falling back to DefaultTenure when the key is
// unknown. ok is false when financing is unavailable or no tenure is offered; callers render
// nothing in that case.
func Calculate(price decimal.Decimal, l api.Loan, tenureKey string) (Breakdown, bool) {
	if !Available(l) {
		return Breakdown{}, false
	}
	key := strings.TrimSpace(tenureKey)
	figures, found := l.Precomputed.Tenures[key]
	if !found {
		key = DefaultTenure(l)
		figures = l.Precomputed.Tenures[key]
	}
	months := MonthsFromKey(key)
	pct := l.Precomputed.DownPaymentPercent
	return Breakdown{
		Tenure:             Tenure{Key: key, Months: months, Label: label(key, months)},
		Price:              price,
		DownPaymentPercent: pct,
		DownPayment:        DownPayment(price, pct),
		LoanAmount:         figures.LoanAmount,
		MonthlyPayment:     figures.MonthlyPayment,
		TotalInterest:      figures.TotalInterest,
		TotalPayable:       figures.TotalPayable,
	}, true
}

// LowestMonthly is the smallest positive monthly payment across all tenures, used for
// "from ₦X/month" teasers.
func LowestMonthly(l api.Loan) (decimal.Decimal, bool) {
	var (
		low   decimal.Decimal
		found bool
	)
	for _, t := range Tenures(l) {
		m := l.Precomputed.Tenures[t.Key].MonthlyPayment
		if !m.IsPositive() {
			continue
		}
		if !found || m.LessThan(low) {
			low, found = m, true
		}
	}
	return low, found
}

// DownPayment is price × percent / 100, rounded half away from zero to whole naira.
func DownPayment(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(percent).Div(hundred).Round(0)
}

// MonthsFromKey parses tenure keys such as "m_12", "12", "12m" or "months_12".
func MonthsFromKey(key string) int {
	key = strings.ToLower(strings.TrimSpace(key))
	digits := strings.TrimFunc(key, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func label(key string, months int) string {
	if months > 0 {
		return strconv.Itoa(months) + " months"
	}
	return key
}
