package main

import (
	"errors"
	"net/url"
	"strings"

	"autohub.ng/autohub-web/internal/leads"
)

// leadForm describes one lead form route.
type leadForm struct {
	Kind string
	Path string
}

var leadForms = []leadForm{
	{Kind: "pre_order", Path: "/pre-order"},
	{Kind: "loan_application", Path: "/loan-application"},
	{Kind: "sell_swap", Path: "/sell-swap"},
	{Kind: "contact", Path: "/contact"},
}

// Option is a select entry.
type Option struct {
	Value    string
	LabelKey string
}

// FormView is the body of every lead form page and of its result fragments.
type FormView struct {
	Lang        string
	Kind        string
	Action      string
	CSRFToken   string
	Values      url.Values
	Errors      []string
	Fields      map[string]string
	Success     string
	FollowUpURL string
	Car         *CarCard

	VehicleTypes     []Option
	EmploymentStatus []Option
	Conditions       []Option
	LoanTerms        []int
}

func newFormView(lang string, f leadForm, values url.Values) FormView {
	if values == nil {
		values = url.Values{}
	}
	return FormView{
		Lang:   lang,
		Kind:   f.Kind,
		Action: f.Path,
		Values: values,
		Fields: map[string]string{},
		VehicleTypes: []Option{
			{Value: leads.VehicleCar, LabelKey: "preorder.vehicle.car"},
			{Value: leads.VehicleElectricBike, LabelKey: "preorder.vehicle.electric_bike"},
			{Value: leads.VehicleElectricScooter, LabelKey: "preorder.vehicle.electric_scooter"},
		},
		EmploymentStatus: []Option{
			{Value: "employed", LabelKey: "loanapp.employment.employed"},
			{Value: "self_employed", LabelKey: "loanapp.employment.self_employed"},
			{Value: "business_owner", LabelKey: "loanapp.employment.business_owner"},
		},
		Conditions: []Option{
			{Value: "excellent", LabelKey: "sellswap.condition.excellent"},
			{Value: "good", LabelKey: "sellswap.condition.good"},
			{Value: "fair", LabelKey: "sellswap.condition.fair"},
			{Value: "poor", LabelKey: "sellswap.condition.poor"},
		},
		LoanTerms: leads.LoanTerms,
	}
}

// Value is the submitted value of a field.
func (v FormView) Value(name string) string { return v.Values.Get(name) }

// Checked reports whether a checkbox was ticked.
func (v FormView) Checked(name string) bool {
	switch v.Values.Get(name) {
	case "", "0", "false", "off":
		return false
	}
	return true
}

// Invalid returns the message for a failing field, or "".
func (v FormView) Invalid(name string) string { return v.Fields[name] }

// withError fills the view from a Submit error.
func (v FormView) withError(err error) FormView {
	v.Errors = leads.UserMessages(err)
	var verr *leads.ValidationError
	if errors.As(err, &verr) {
		v.Fields = verr.Fields()
	}
	return v
}

// followUpURL keeps an absolute http(s) follow-up link from the API and drops anything else.
func followUpURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}
