package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Brand is the manufacturer block embedded in a car record.
type Brand struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Car mirrors a marketplace listing as returned by /cars.
type Car struct {
	ID            int64           `json:"id"`
	Brand         Brand           `json:"brand"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Trim          string          `json:"trim"`
	Price         decimal.Decimal `json:"price"`
	Mileage       int64           `json:"mileage"`
	Condition     string          `json:"condition"`
	FuelType      string          `json:"fuel_type"`
	Transmission  string          `json:"transmission"`
	Location      string          `json:"location"`
	FeaturedImage string          `json:"featured_image"`
	Images        []string        `json:"images"`
	Features      []string        `json:"features"`
	Description   string          `json:"description,omitempty"`
	Loan          Loan            `json:"loan"`
}

// UnmarshalJSON accepts the integer fields as numbers or numeric strings.
func (c *Car) UnmarshalJSON(b []byte) error {
	type plain Car
	aux := struct {
		*plain
		ID      flexInt `json:"id"`
		Year    flexInt `json:"year"`
		Mileage flexInt `json:"mileage"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID, c.Year, c.Mileage = int64(aux.ID), int(aux.Year), int64(aux.Mileage)
	return nil
}

// Title renders "2019 Toyota Camry SE".
func (c Car) Title() string {
	parts := make([]string, 0, 4)
	if c.Year > 0 {
		parts = append(parts, strconv.Itoa(c.Year))
	}
	for _, p := range []string{c.Brand.Name, c.Model, c.Trim} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Gallery returns the featured image followed by the remaining images, without duplicates.
func (c Car) Gallery() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(c.Images)+1)
	for _, img := range append([]string{c.FeaturedImage}, c.Images...) {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if _, ok := seen[img]; ok {
			continue
		}
		seen[img] = struct{}{}
		out = append(out, img)
	}
	return out
}

// Loan describes financing availability for a car.
type Loan struct {
	Available   bool         `json:"available"`
	Precomputed *Precomputed `json:"precomputed,omitempty"`
}

// Precomputed holds the server-side financing breakdown. The client never recomputes it.
type Precomputed struct {
	DownPaymentPercent decimal.Decimal          `json:"down_payment_percent"`
	Tenures            map[string]TenureFigures `json:"tenures"`
}

// TenureFigures are the figures for one repayment duration.
type TenureFigures struct {
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
}

// PageMeta is the pagination metadata of /cars. It is authoritative.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page,omitempty"`
	Total       int `json:"total,omitempty"`
}

// UnmarshalJSON accepts the counters as numbers or numeric strings.
func (m *PageMeta) UnmarshalJSON(b []byte) error {
	var aux struct {
		CurrentPage flexInt `json:"current_page"`
		LastPage    flexInt `json:"last_page"`
		PerPage     flexInt `json:"per_page"`
		Total       flexInt `json:"total"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = PageMeta{
		CurrentPage: int(aux.CurrentPage),
		LastPage:    int(aux.LastPage),
		PerPage:     int(aux.PerPage),
		Total:       int(aux.Total),
	}
	return nil
}

// CarPage is one page of /cars.
type CarPage struct {
	Data []Car    `json:"data"`
	Meta PageMeta `json:"meta"`
}

// SiteSettings carries company metadata shown in the header, footer and contact page.
type SiteSettings struct {
	CompanyName    string `json:"company_name"`
	Tagline        string `json:"tagline,omitempty"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Logo           string `json:"logo"`
	WhatsAppNumber string `json:"whatsapp_number"`
	AdminPhone     string `json:"admin_phone,omitempty"`
	Facebook       string `json:"facebook,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
}

// Slide is one carousel entry.
type Slide struct {
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}

// CarouselResponse is the body of /carousel.
type CarouselResponse struct {
	Success bool    `json:"success"`
	Version int64   `json:"version"`
	Data    []Slide `json:"data"`
}

// LeadResponse is returned by the lead submission endpoints.
type LeadResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
}

// FollowUpURL is the URL offered to the user after a successful submission, if any.
func (r LeadResponse) FollowUpURL() string {
	if u := strings.TrimSpace(r.Redirect); u != "" {
		return u
	}
	return strings.TrimSpace(r.WhatsAppURL)
}

// flexInt decodes an integer sent as a JSON number or a numeric string. Fractions are
// truncated; null and "" decode to zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
		if raw == "" {
			*n = 0
			return nil
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("api: invalid integer %s", b)
	}
	*n = flexInt(d.IntPart())
	return nil
}
