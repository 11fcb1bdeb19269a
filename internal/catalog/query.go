// Package catalog holds the search/filter/pagination state shared by every car listing
// page and the single fetcher they all use.
package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Filter names as they appear in page URLs and API queries.
const (
	ParamPage          = "page"
	ParamPerPage       = "per_page"
	ParamSearch        = "search"
	ParamPriceMin      = "price_min"
	ParamPriceMax      = "price_max"
	ParamYearMin       = "year_min"
	ParamYearMax       = "year_max"
	ParamLocation      = "location"
	ParamLoanAvailable = "loan_available"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 48

	maxSearchLength = 120
	minYear         = 1950
	maxYear         = 2100
)

// Profile describes which filters a listing page exposes.
type Profile struct {
	Name     string
	Filters  []string
	PerPage  int
	LoanOnly bool
}

var (
	// CarsProfile powers the main catalog.
	CarsProfile = Profile{
		Name:    "cars",
		Filters: []string{ParamSearch, ParamPriceMin, ParamPriceMax, ParamYearMin, ParamYearMax, ParamLocation},
		PerPage: DefaultPerPage,
	}
	// LoansProfile powers the "buy on loan" listing: financing is always required.
	LoansProfile = Profile{
		Name:     "loans",
		Filters:  []string{ParamSearch, ParamPriceMin, ParamPriceMax, ParamLocation},
		PerPage:  DefaultPerPage,
		LoanOnly: true,
	}
)

func (p Profile) allows(name string) bool {
	for _, f := range p.Filters {
		if f == name {
			return true
		}
	}
	return false
}

// Query is the listing state. Zero numeric filters mean "not set".
type Query struct {
	Profile  Profile
	Page     int
	PerPage  int
	Search   string
	PriceMin int64
	PriceMax int64
	YearMin  int
	YearMax  int
	Location string
	LoanOnly bool
}

// Parse hydrates a Query from URL parameters. Unknown, malformed and out-of-profile
// parameters are ignored.
func Parse(values url.Values, p Profile) Query {
	q := Query{Profile: p, Page: 1, PerPage: p.PerPage, LoanOnly: p.LoanOnly}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if n, ok := positiveInt(values.Get(ParamPage)); ok {
		q.Page = int(n)
	}
	for _, name := range p.Filters {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		q = q.set(name, raw)
	}
	return q
}

// WithFilter returns a copy with one filter changed (an empty value clears it). Changing a
// filter always resets the page to 1.
func (q Query) WithFilter(name, value string) Query {
	if !q.Profile.allows(name) {
		return q
	}
	next := q.set(name, "")
	if v := strings.TrimSpace(value); v != "" {
		next = next.set(name, v)
	}
	next.Page = 1
	return next
}

// WithPage returns a copy positioned on page n (minimum 1).
func (q Query) WithPage(n int) Query {
	if n < 1 {
		n = 1
	}
	q.Page = n
	return q
}

// Reset clears every filter.
func (q Query) Reset() Query {
	return Query{Profile: q.Profile, Page: 1, PerPage: q.PerPage, LoanOnly: q.LoanOnly}
}

func (q Query) set(name, raw string) Query {
	switch name {
	case ParamSearch:
		q.Search = truncateRunes(raw, maxSearchLength)
	case ParamLocation:
		q.Location = raw
	case ParamPriceMin:
		q.PriceMin, _ = positiveInt(raw)
	case ParamPriceMax:
		q.PriceMax, _ = positiveInt(raw)
	case ParamYearMin:
		q.YearMin = year(raw)
	case ParamYearMax:
		q.YearMax = year(raw)
	}
	return q
}

// Filters returns the active filters as URL values (no paging keys).
func (q Query) Filters() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.PriceMin > 0 {
		v.Set(ParamPriceMin, strconv.FormatInt(q.PriceMin, 10))
	}
	if q.PriceMax > 0 {
		v.Set(ParamPriceMax, strconv.FormatInt(q.PriceMax, 10))
	}
	if q.YearMin > 0 {
		v.Set(ParamYearMin, strconv.Itoa(q.YearMin))
	}
	if q.YearMax > 0 {
		v.Set(ParamYearMax, strconv.Itoa(q.YearMax))
	}
	if q.Location != "" {
		v.Set(ParamLocation, q.Location)
	}
	return v
}

// Encode renders the shareable page URL query. page is included only past the first page.
func (q Query) Encode() string {
	v := q.Filters()
	if q.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	return v.Encode()
}

// URL returns path plus the encoded query.
func (q Query) URL(path string) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// APIValues renders the outgoing /cars query.
func (q Query) APIValues() url.Values {
	v := q.Filters()
	page := q.Page
	if page < 1 {
		page = 1
	}
	per := q.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}
	v.Set(ParamPage, strconv.Itoa(page))
	v.Set(ParamPerPage, strconv.Itoa(per))
	if q.LoanOnly {
		v.Set(ParamLoanAvailable, "1")
	}
	return v
}

// Active reports whether any filter is set.
func (q Query) Active() bool { return len(q.Filters()) > 0 }

func positiveInt(raw string) (int64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func year(raw string) int {
	n, ok := positiveInt(raw)
	if !ok || n < minYear || n > maxYear {
		return 0
	}
	return int(n)
}

// truncateRunes cuts s to at most n bytes without splitting a rune. Invalid input is scrubbed.
func truncateRunes(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
