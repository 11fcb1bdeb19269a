// Package whatsapp builds click-to-chat links.
package whatsapp

import (
	"net/url"
	"strings"
)

const (
	baseURL     = "https://wa.me/"
	countryCode = "234"
)

// Normalize reduces a Nigerian phone number to international digits: "0803 123 4567"
// becomes "2348031234567". Non-digits are dropped.
func Normalize(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "00"):
		return strings.TrimPrefix(digits, "00")
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	}
	return digits
}

// Link returns a wa.me link to number with text prefilled. It returns "" when the number
// has no digits.
func Link(number, text string) string {
	n := Normalize(number)
	if n == "" {
		return ""
	}
	link := baseURL + n
	if text = strings.TrimSpace(text); text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}
