// Package models provides the data structures shared by the transaction
// pipeline: the canonical transaction record, raw source shapes, cards,
// currencies and tags.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement status reported for a transaction.
type Status string

const (
	StatusApproved Status = "Approved"
	StatusPending  Status = "Pending"
	StatusDeclined Status = "Declined"
)

// Kind distinguishes payments from reversals.
type Kind string

const (
	KindPayment  Kind = "Payment"
	KindReversal Kind = "Reversal"
)

// TransactionType is the card-network operation type. The set is open: values
// other than the constants below pass through untouched.
type TransactionType string

const (
	TypePurchase      TransactionType = "PURCHASE"
	TypeATMWithdrawal TransactionType = "ATM_WITHDRAWAL"
	TypeMoneyTransfer TransactionType = "MONEY_TRANSFER"
	TypeRefunded      TransactionType = "REFUNDED"
)

// Tags holds the three free-text user tags attached to a transaction.
// Unset tags are empty strings, never absent, so string operations on them
// are always safe.
type Tags struct {
	Tag1 string `yaml:"tag1"`
	Tag2 string `yaml:"tag2"`
	Tag3 string `yaml:"tag3"`
}

// Merchant describes the counterparty of a card transaction.
type Merchant struct {
	Name    string
	City    string
	Country string
}

// Transaction is the canonical in-memory record produced by normalization.
// RowIndex is assigned once, oldest-to-newest, and never reassigned; it is
// the sole key for tag persistence.
type Transaction struct {
	RowIndex  int
	CreatedAt string // ISO-parseable or scraped display date; may be empty
	ClearedAt string
	IsPending bool

	// TransactionAmount is the amount in the merchant's currency. The API is
	// the only source for it, so it stays unset on scraped-only records.
	TransactionAmount   decimal.NullDecimal
	TransactionCurrency Currency
	BillingAmount       decimal.Decimal
	BillingCurrency     Currency

	MCC      string // exactly 4 digits, '0000' when unknown
	Merchant Merchant
	Country  string

	TransactionType TransactionType
	Status          Status
	Kind            Kind

	Category Category // memoized at normalization time

	CardToken string
	Hash      string // first sub-transaction hash, lifted at normalization

	Tags
}

// EffectiveDate returns the date the cashback window should judge the
// transaction by: cleared when known, created otherwise.
func (t *Transaction) EffectiveDate() string {
	if t.ClearedAt != "" {
		return t.ClearedAt
	}
	return t.CreatedAt
}

// HasTag reports whether value equals any of the three tag slots.
func (t *Transaction) HasTag(value string) bool {
	return t.Tag1 == value || t.Tag2 == value || t.Tag3 == value
}

// ParseAmount converts a display amount ("£1,234.56", "−12.30") to a decimal.
// Currency glyphs, thousands separators and unicode minus signs are stripped;
// anything unparseable becomes zero rather than an error.
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.TrimSpace(s)
	for _, cut := range []string{"£", "$", "€", ",", "'", " ", " "} {
		cleaned = strings.ReplaceAll(cleaned, cut, "")
	}
	// U+2212 minus as rendered by the dashboard
	cleaned = strings.ReplaceAll(cleaned, "−", "-")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MinorUnitsToDecimal converts an API amount expressed in minor units
// ("1234" meaning 12.34) into a major-unit decimal. Non-numeric input
// yields zero.
func MinorUnitsToDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d.Div(decimal.NewFromInt(100))
}

// whenLayouts covers the ISO timestamps the API returns and the display
// forms the dashboard renders ("MAR 5, 2024").
var whenLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2 Jan 2006",
}

// ParseWhen parses a transaction date tolerantly. The ok result is false for
// empty or unrecognized input; callers treat that as "no date", never as an
// error.
func ParseWhen(s string) (time.Time, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
		// Scraped day headers are upper-cased ("MAR 5, 2024")
		if t, err := time.Parse(layout, titleCaseMonth(cleaned)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey reduces a date string to its UTC calendar day ("2024-03-01").
// Returns "" when the date cannot be parsed.
func DayKey(s string) string {
	t, ok := ParseWhen(s)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func titleCaseMonth(s string) string {
	if len(s) < 3 {
		return s
	}
	head := strings.ToUpper(s[:1]) + strings.ToLower(s[1:3])
	return head + s[3:]
}
