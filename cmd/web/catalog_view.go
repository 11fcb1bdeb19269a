package main

import (
	"strconv"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/catalog"
	"autohub.ng/autohub-web/internal/format"
	"autohub.ng/autohub-web/internal/loan"
)

// CarCard is the listing tile of one car.
type CarCard struct {
	ID            int64
	Title         string
	Href          string
	Image         string
	Price         string
	PriceShort    string
	Year          int
	Mileage       string
	Location      string
	Transmission  string
	FuelType      string
	Condition     string
	LoanAvailable bool
	MonthlyFrom   string
}

func newCarCard(c api.Car) CarCard {
	card := CarCard{
		ID:            c.ID,
		Title:         c.Title(),
		Href:          "/cars/" + strconv.FormatInt(c.ID, 10),
		Price:         format.Naira(c.Price),
		PriceShort:    format.NairaShort(c.Price),
		Year:          c.Year,
		Location:      c.Location,
		Transmission:  c.Transmission,
		FuelType:      c.FuelType,
		Condition:     c.Condition,
		LoanAvailable: loan.Available(c.Loan),
	}
	if g := c.Gallery(); len(g) > 0 {
		card.Image = g[0]
	}
	if c.Mileage > 0 {
		card.Mileage = format.Mileage(c.Mileage)
	}
	if card.LoanAvailable {
		if m, ok := loan.LowestMonthly(c.Loan); ok {
			card.MonthlyFrom = format.Naira(m)
		}
	}
	return card
}

func newCarCards(cars []api.Car) []CarCard {
	out := make([]CarCard, 0, len(cars))
	for _, c := range cars {
		out = append(out, newCarCard(c))
	}
	return out
}

// PagerLink is one pager entry with both the shareable and fragment URLs.
type PagerLink struct {
	Number   int
	Href     string
	FragHref string
	Current  bool
	Gap      bool
}

// ListingView is shared by /cars and /loans, full page and fragment alike.
type ListingView struct {
	Lang     string
	Profile  string
	Path     string
	FragPath string
	Query    catalog.Query
	Allows   map[string]bool
	Cards    []CarCard
	Meta     api.PageMeta
	Pages    []PagerLink
	PrevHref string
	NextHref string
	ResetURL string
	Empty    bool
	Clamped  bool
	Error    string
}

func newListingView(lang, path string, q catalog.Query) ListingView {
	allows := make(map[string]bool, len(q.Profile.Filters))
	for _, f := range q.Profile.Filters {
		allows[f] = true
	}
	return ListingView{
		Lang:     lang,
		Profile:  q.Profile.Name,
		Path:     path,
		FragPath: path + "/results",
		Query:    q,
		Allows:   allows,
		ResetURL: path,
	}
}

func (v ListingView) withResult(res catalog.Result) ListingView {
	v.Query = res.Query
	v.Cards = newCarCards(res.Cars)
	v.Meta = res.Meta
	v.Empty = res.Empty()
	v.Clamped = res.Clamped
	v.Pages = make([]PagerLink, 0, len(res.Pages))
	for _, p := range res.Pages {
		if p.Gap {
			v.Pages = append(v.Pages, PagerLink{Gap: true})
			continue
		}
		v.Pages = append(v.Pages, PagerLink{
			Number:   p.Number,
			Href:     p.Query.URL(v.Path),
			FragHref: p.Query.URL(v.FragPath),
			Current:  p.Current,
		})
	}
	if cur := res.Meta.CurrentPage; cur > 1 {
		v.PrevHref = res.Query.WithPage(cur - 1).URL(v.Path)
	}
	if cur, last := res.Meta.CurrentPage, res.Meta.LastPage; cur < last {
		v.NextHref = res.Query.WithPage(cur + 1).URL(v.Path)
	}
	return v
}

// Filter returns the current value of a filter input.
func (v ListingView) Filter(name string) string {
	return v.Query.Filters().Get(name)
}
