package seo

import (
	"encoding/json"
	"html/template"
	"strconv"

	"autohub.ng/autohub-web/internal/api"
)

// JSON marshals v for a ld+json script tag. It returns "" on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// AutoDealer describes the business.
func AutoDealer(s api.SiteSettings, siteURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "AutoDealer",
		"name":     s.CompanyName,
	}
	if siteURL != "" {
		m["url"] = siteURL
	}
	if s.Logo != "" {
		m["logo"] = s.Logo
	}
	if s.Phone != "" {
		m["telephone"] = s.Phone
	}
	if s.Email != "" {
		m["email"] = s.Email
	}
	if s.Address != "" {
		m["address"] = map[string]any{"@type": "PostalAddress", "streetAddress": s.Address, "addressCountry": "NG"}
	}
	return m
}

// WebSite declares the catalog search action.
func WebSite(name, siteURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if siteURL != "" {
		m["url"] = siteURL
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      siteURL + "/cars?search={search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds a schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Car describes a listing as a schema.org Car with a Naira offer.
func Car(c api.Car, pageURL, description string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Car",
		"name":     c.Title(),
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         c.Price.StringFixed(0),
			"priceCurrency": "NGN",
			"availability":  "https://schema.org/InStock",
			"url":           pageURL,
		},
	}
	if c.Brand.Name != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": c.Brand.Name}
	}
	if c.Model != "" {
		m["model"] = c.Model
	}
	if c.Year > 0 {
		m["vehicleModelDate"] = strconv.Itoa(c.Year)
	}
	if c.Mileage > 0 {
		m["mileageFromOdometer"] = map[string]any{"@type": "QuantitativeValue", "value": c.Mileage, "unitCode": "KMT"}
	}
	if c.FuelType != "" {
		m["fuelType"] = c.FuelType
	}
	if c.Transmission != "" {
		m["vehicleTransmission"] = c.Transmission
	}
	if imgs := c.Gallery(); len(imgs) > 0 {
		m["image"] = imgs
	}
	if description != "" {
		m["description"] = description
	}
	return m
}
