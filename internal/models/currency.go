package models

import "strings"

// CurrencyCode is an ISO 4217 code. Only the three currencies the dashboard
// settles in are distinguished; everything else is treated as USD when
// converting.
type CurrencyCode string

const (
	GBP CurrencyCode = "GBP"
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
)

// Currency is the single tagged currency representation used on canonical
// records. Raw sources carry a mix of ISO codes, glyphs and loose objects;
// they are resolved into this once at ingestion and never re-sniffed.
type Currency struct {
	Code CurrencyCode
}

// Symbol returns the display glyph for the currency.
func (c Currency) Symbol() string {
	switch c.Code {
	case GBP:
		return "£"
	case EUR:
		return "€"
	case USD:
		return "$"
	}
	return ""
}

// IsZero reports whether no currency was resolved.
func (c Currency) IsZero() bool {
	return c.Code == ""
}

// ParseCurrency resolves a raw currency token (ISO code, glyph or currency
// name) into a Currency. Unrecognized input resolves to USD, matching the
// conversion default.
func ParseCurrency(raw string) Currency {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Currency{Code: USD}
	}
	up := strings.ToUpper(s)
	switch {
	case strings.Contains(s, "€") || strings.Contains(up, "EUR"):
		return Currency{Code: EUR}
	case strings.Contains(s, "£") || strings.Contains(up, "GBP") ||
		strings.Contains(up, "POUND") || strings.Contains(up, "BRITISH"):
		return Currency{Code: GBP}
	case strings.Contains(s, "$") || strings.Contains(up, "USD"):
		return Currency{Code: USD}
	}
	return Currency{Code: USD}
}
