// Package leads validates and submits the customer lead forms: pre-orders, loan
// applications, sell/swap requests and contact messages.
package leads

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"autohub.ng/autohub-web/internal/api"
)

// Vehicle types accepted by the pre-order form.
const (
	VehicleCar             = "car"
	VehicleElectricBike    = "electric_bike"
	VehicleElectricScooter = "electric_scooter"
)

// Sell/swap request types.
const (
	RequestSell = "sell"
	RequestSwap = "swap"
)

// Form is a parsed lead form.
type Form interface {
	// Kind names the form in logs, metrics and templates.
	Kind() string
	// Endpoint is the API path the payload is posted to.
	Endpoint() string
	// Payload is the JSON body. Empty and irrelevant fields are absent.
	Payload() map[string]any
}

// Contact holds the fields every form shares.
type Contact struct {
	FirstName string `form:"first_name" validate:"required,max=80"`
	LastName  string `form:"last_name" validate:"required,max=80"`
	Email     string `form:"email" validate:"required,email"`
	Phone     string `form:"phone" validate:"required,ngphone"`
}

func parseContact(v url.Values) Contact {
	return Contact{
		FirstName: text(v, "first_name"),
		LastName:  text(v, "last_name"),
		Email:     strings.ToLower(text(v, "email")),
		Phone:     text(v, "phone"),
	}
}

func (c Contact) fill(p payload) {
	p.str("first_name", c.FirstName)
	p.str("last_name", c.LastName)
	p.str("email", c.Email)
	p.str("phone", c.Phone)
}

// PreOrder asks the dealer to source a vehicle.
type PreOrder struct {
	Contact
	VehicleType        string `form:"vehicle_type" validate:"required,oneof=car electric_bike electric_scooter"`
	Brand              string `form:"brand" validate:"required_if=VehicleType car"`
	Model              string `form:"model" validate:"required_if=VehicleType car"`
	YearFrom           int    `form:"year_from" validate:"omitempty,gte=1950,lte=2100"`
	YearTo             int    `form:"year_to" validate:"omitempty,gte=1950,lte=2100"`
	Color              string `form:"color"`
	BudgetMin          int64  `form:"budget_min" validate:"gt=0"`
	BudgetMax          int64  `form:"budget_max" validate:"gt=0"`
	DestinationCountry string `form:"destination_country" validate:"required"`
	DestinationCity    string `form:"destination_city"`
	Notes              string `form:"notes" validate:"max=2000"`
	CarID              int64  `form:"car_id"`
}

// ParsePreOrder reads a PreOrder from submitted form values.
func ParsePreOrder(v url.Values) PreOrder {
	return PreOrder{
		Contact:            parseContact(v),
		VehicleType:        strings.ToLower(text(v, "vehicle_type")),
		Brand:              text(v, "brand"),
		Model:              text(v, "model"),
		YearFrom:           int(number(v, "year_from")),
		YearTo:             int(number(v, "year_to")),
		Color:              text(v, "color"),
		BudgetMin:          number(v, "budget_min"),
		BudgetMax:          number(v, "budget_max"),
		DestinationCountry: text(v, "destination_country"),
		DestinationCity:    text(v, "destination_city"),
		Notes:              text(v, "notes"),
		CarID:              number(v, "car_id"),
	}
}

func (PreOrder) Kind() string     { return "pre_order" }
func (PreOrder) Endpoint() string { return api.PathPreOrders }

func (f PreOrder) Payload() map[string]any {
	p := payload{}
	f.Contact.fill(p)
	p.str("vehicle_type", f.VehicleType)
	if f.VehicleType == VehicleCar {
		p.str("brand", f.Brand)
		p.str("model", f.Model)
		p.num("year_from", int64(f.YearFrom))
		p.num("year_to", int64(f.YearTo))
	}
	p.str("color", f.Color)
	p.num("budget_min", f.BudgetMin)
	p.num("budget_max", f.BudgetMax)
	p.str("destination_country", f.DestinationCountry)
	p.str("destination_city", f.DestinationCity)
	p.str("notes", f.Notes)
	p.num("car_id", f.CarID)
	return p
}

func (f PreOrder) rules(add func(field, msg string)) {
	if f.BudgetMin > 0 && f.BudgetMax > 0 && f.BudgetMin > f.BudgetMax {
		add("budget_min", "Minimum budget cannot be greater than maximum budget")
	}
	if f.VehicleType != VehicleCar {
		return
	}
	if f.YearFrom == 0 || f.YearTo == 0 {
		add("year_from", "Year range is required for cars")
	} else if f.YearFrom > f.YearTo {
		add("year_from", "Year from cannot be later than year to")
	}
}

// Loan terms in months offered to applicants.
var LoanTerms = []int{6, 12, 18, 24, 36}

// Interest rate bounds in percent; submitted rates are clamped into this range.
var (
	MinInterestRate = decimal.NewFromInt(1)
	MaxInterestRate = decimal.NewFromInt(100)
)

// LoanApplication requests vehicle financing.
type LoanApplication struct {
	Contact
	Address            string          `form:"address" validate:"required,max=250"`
	State              string          `form:"state"`
	NIN                string          `form:"nin" validate:"required,len=11,numeric"`
	BVN                string          `form:"bvn" validate:"required,len=11,numeric"`
	EmploymentStatus   string          `form:"employment_status" validate:"required,oneof=employed self_employed business_owner"`
	Employer           string          `form:"employer"`
	MonthlyIncome      int64           `form:"monthly_income" validate:"gt=0"`
	CarID              int64           `form:"car_id"`
	LoanTerm           int             `form:"loan_term" validate:"required,oneof=6 12 18 24 36"`
	InterestRate       decimal.Decimal `form:"interest_rate" validate:"-"`
	DownPaymentPercent int64           `form:"down_payment_percent" validate:"gte=0,lte=100"`
	ConsentCreditCheck bool            `form:"consent_credit_check" validate:"required"`
	ConsentTerms       bool            `form:"consent_terms" validate:"required"`
}

// ParseLoanApplication reads a LoanApplication from submitted form values.
func ParseLoanApplication(v url.Values) LoanApplication {
	return LoanApplication{
		Contact:            parseContact(v),
		Address:            text(v, "address"),
		State:              text(v, "state"),
		NIN:                compact(text(v, "nin")),
		BVN:                compact(text(v, "bvn")),
		EmploymentStatus:   strings.ToLower(text(v, "employment_status")),
		Employer:           text(v, "employer"),
		MonthlyIncome:      number(v, "monthly_income"),
		CarID:              number(v, "car_id"),
		LoanTerm:           int(number(v, "loan_term")),
		InterestRate:       ClampInterestRate(text(v, "interest_rate")),
		DownPaymentPercent: number(v, "down_payment_percent"),
		ConsentCreditCheck: checked(v, "consent_credit_check"),
		ConsentTerms:       checked(v, "consent_terms"),
	}
}

// ClampInterestRate parses a percentage and clamps it to [MinInterestRate, MaxInterestRate].
// Missing or malformed input yields the minimum.
func ClampInterestRate(raw string) decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil || rate.LessThan(MinInterestRate) {
		return MinInterestRate
	}
	if rate.GreaterThan(MaxInterestRate) {
		return MaxInterestRate
	}
	return rate
}

func (LoanApplication) Kind() string     { return "loan_application" }
func (LoanApplication) Endpoint() string { return api.PathLoanApplications }

func (f LoanApplication) Payload() map[string]any {
	p := payload{}
	f.Contact.fill(p)
	p.str("address", f.Address)
	p.str("state", f.State)
	p.str("nin", f.NIN)
	p.str("bvn", f.BVN)
	p.str("employment_status", f.EmploymentStatus)
	p.str("employer", f.Employer)
	p.num("monthly_income", f.MonthlyIncome)
	p.num("car_id", f.CarID)
	p.num("loan_term", int64(f.LoanTerm))
	p["interest_rate"] = f.InterestRate.InexactFloat64()
	p.num("down_payment_percent", f.DownPaymentPercent)
	p["consent_credit_check"] = f.ConsentCreditCheck
	p["consent_terms"] = f.ConsentTerms
	return p
}

func (f LoanApplication) rules(add func(field, msg string)) {
	if f.EmploymentStatus == "employed" && f.Employer == "" {
		add("employer", "Employer is required when employed")
	}
}

// SellSwap offers a vehicle for sale or in exchange for another.
type SellSwap struct {
	Contact
	RequestType        string `form:"request_type" validate:"required,oneof=sell swap"`
	VehicleBrand       string `form:"vehicle_brand" validate:"required"`
	VehicleModel       string `form:"vehicle_model" validate:"required"`
	VehicleYear        int    `form:"vehicle_year" validate:"required,gte=1950,lte=2100"`
	Mileage            int64  `form:"mileage" validate:"gte=0"`
	Condition          string `form:"condition" validate:"required,oneof=excellent good fair poor"`
	AskingPrice        int64  `form:"asking_price" validate:"gte=0"`
	DesiredBrand       string `form:"desired_brand" validate:"required_if=RequestType swap"`
	DesiredModel       string `form:"desired_model" validate:"required_if=RequestType swap"`
	InspectionDate     string `form:"inspection_date" validate:"required,datetime=2006-01-02"`
	InspectionTime     string `form:"inspection_time" validate:"omitempty,datetime=15:04"`
	InspectionLocation string `form:"inspection_location"`
	Notes              string `form:"notes" validate:"max=2000"`
}

// ParseSellSwap reads a SellSwap from submitted form values.
func ParseSellSwap(v url.Values) SellSwap {
	return SellSwap{
		Contact:            parseContact(v),
		RequestType:        strings.ToLower(text(v, "request_type")),
		VehicleBrand:       text(v, "vehicle_brand"),
		VehicleModel:       text(v, "vehicle_model"),
		VehicleYear:        int(number(v, "vehicle_year")),
		Mileage:            signed(v, "mileage"),
		Condition:          strings.ToLower(text(v, "condition")),
		AskingPrice:        signed(v, "asking_price"),
		DesiredBrand:       text(v, "desired_brand"),
		DesiredModel:       text(v, "desired_model"),
		InspectionDate:     text(v, "inspection_date"),
		InspectionTime:     text(v, "inspection_time"),
		InspectionLocation: text(v, "inspection_location"),
		Notes:              text(v, "notes"),
	}
}

func (SellSwap) Kind() string     { return "sell_swap" }
func (SellSwap) Endpoint() string { return api.PathSellSwap }

func (f SellSwap) Payload() map[string]any {
	p := payload{}
	f.Contact.fill(p)
	p.str("request_type", f.RequestType)
	p.str("vehicle_brand", f.VehicleBrand)
	p.str("vehicle_model", f.VehicleModel)
	p.num("vehicle_year", int64(f.VehicleYear))
	p["mileage"] = f.Mileage
	p.str("condition", f.Condition)
	p.num("asking_price", f.AskingPrice)
	if f.RequestType == RequestSwap {
		p.str("desired_brand", f.DesiredBrand)
		p.str("desired_model", f.DesiredModel)
	}
	p.str("inspection_date", f.InspectionDate)
	p.str("inspection_time", f.InspectionTime)
	p.str("inspection_location", f.InspectionLocation)
	p.str("notes", f.Notes)
	return p
}

func (SellSwap) rules(func(field, msg string)) {}

// ContactMessage is a free-form enquiry.
type ContactMessage struct {
	Contact
	Subject string `form:"subject" validate:"max=150"`
	Message string `form:"message" validate:"required,max=2000"`
	CarID   int64  `form:"car_id"`
}

// ParseContact reads a ContactMessage from submitted form values.
func ParseContact(v url.Values) ContactMessage {
	return ContactMessage{
		Contact: parseContact(v),
		Subject: text(v, "subject"),
		Message: text(v, "message"),
		CarID:   number(v, "car_id"),
	}
}

func (ContactMessage) Kind() string     { return "contact" }
func (ContactMessage) Endpoint() string { return api.PathContact }

func (f ContactMessage) Payload() map[string]any {
	p := payload{}
	f.Contact.fill(p)
	p.str("subject", f.Subject)
	p.str("message", f.Message)
	p.num("car_id", f.CarID)
	return p
}

func (ContactMessage) rules(func(field, msg string)) {}

type payload map[string]any

func (p payload) str(key, v string) {
	if v != "" {
		p[key] = v
	}
}

func (p payload) num(key string, v int64) {
	if v > 0 {
		p[key] = v
	}
}

func text(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

// number parses a non-negative amount, tolerating thousands separators. Invalid input is 0.
func number(v url.Values, key string) int64 {
	n := signed(v, key)
	if n < 0 {
		return 0
	}
	return n
}

// signed keeps negative values so range rules can reject them.
func signed(v url.Values, key string) int64 {
	raw := strings.NewReplacer(",", "", " ", "", "₦", "").Replace(text(v, key))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func checked(v url.Values, key string) bool {
	switch strings.ToLower(text(v, key)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// compact drops the spaces and dashes people type inside identity numbers.
func compact(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}
