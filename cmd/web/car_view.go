package main

import (
	"html/template"
	"strconv"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/format"
	"autohub.ng/autohub-web/internal/loan"
)

// Detail is one row of the car details table.
type Detail struct {
	LabelKey string
	Value    string
}

// TenureOption is one tenure tab.
type TenureOption struct {
	Key      string
	Label    string
	Href     string
	Selected bool
}

// LoanPanel is the financing breakdown fragment.
type LoanPanel struct {
	Lang      string
	CarID     int64
	Tenures   []TenureOption
	Breakdown loan.Breakdown
	ApplyHref string
}

// newLoanPanel returns false when the car cannot be financed; nothing is rendered then.
func newLoanPanel(lang string, c api.Car, tenureKey string) (LoanPanel, bool) {
	b, ok := loan.Calculate(c.Price, c.Loan, tenureKey)
	if !ok {
		return LoanPanel{}, false
	}
	id := strconv.FormatInt(c.ID, 10)
	panel := LoanPanel{
		Lang:      lang,
		CarID:     c.ID,
		Breakdown: b,
		ApplyHref: "/loan-application?car_id=" + id + "&loan_term=" + strconv.Itoa(b.Tenure.Months),
	}
	for _, t := range loan.Tenures(c.Loan) {
		panel.Tenures = append(panel.Tenures, TenureOption{
			Key:      t.Key,
			Label:    t.Label,
			Href:     "/cars/" + id + "/loan?tenure=" + t.Key,
			Selected: t.Key == b.Tenure.Key,
		})
	}
	return panel, true
}

// CarDetailView is the /cars/{id} page body.
type CarDetailView struct {
	Lang        string
	Card        CarCard
	Gallery     []string
	Details     []Detail
	Features    []string
	Description template.HTML
	Loan        *LoanPanel
	EnquireHref string
	WhatsAppURL string
}

func newCarDetailView(lang string, c api.Car, tenureKey string, description template.HTML) CarDetailView {
	v := CarDetailView{
		Lang:        lang,
		Card:        newCarCard(c),
		Gallery:     c.Gallery(),
		Features:    c.Features,
		Description: description,
		EnquireHref: "/contact?car_id=" + strconv.FormatInt(c.ID, 10),
	}
	add := func(key, value string) {
		if value != "" {
			v.Details = append(v.Details, Detail{LabelKey: key, Value: value})
		}
	}
	if c.Year > 0 {
		add("car.year", strconv.Itoa(c.Year))
	}
	add("car.mileage", v.Card.Mileage)
	add("car.condition", c.Condition)
	add("car.fuel_type", c.FuelType)
	add("car.transmission", c.Transmission)
	add("car.location", c.Location)
	add("car.price", format.Naira(c.Price))
	if panel, ok := newLoanPanel(lang, c, tenureKey); ok {
		v.Loan = &panel
	}
	return v
}
