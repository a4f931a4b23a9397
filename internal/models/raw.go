package models

import "github.com/shopspring/decimal"

// RawCurrency is the loose currency object the API attaches to amounts. The
// symbol field actually carries an ISO code ("GBP"), not a glyph.
type RawCurrency struct {
	Symbol string `json:"symbol"`
}

// RawCountry wraps the merchant country name.
type RawCountry struct {
	Name string `json:"name"`
}

// RawMerchant is the merchant object on an API transaction.
type RawMerchant struct {
	Name    string     `json:"name"`
	City    string     `json:"city"`
	Country RawCountry `json:"country"`
}

// SubTransaction is an entry of the optional on-chain settlement list; the
// first entry's hash is used for CSV reconciliation.
type SubTransaction struct {
	Hash string `json:"hash"`
}

// RawAPITransaction is one element of the paginated transactions endpoint.
// Monetary amounts are strings in minor units (cents).
type RawAPITransaction struct {
	CreatedAt           string           `json:"createdAt"`
	ClearedAt           string           `json:"clearedAt"`
	IsPending           bool             `json:"isPending"`
	TransactionAmount   string           `json:"transactionAmount"`
	BillingAmount       string           `json:"billingAmount"`
	TransactionCurrency *RawCurrency     `json:"transactionCurrency"`
	BillingCurrency     *RawCurrency     `json:"billingCurrency"`
	MCC                 string           `json:"mcc"`
	Merchant            *RawMerchant     `json:"merchant"`
	Kind                string           `json:"kind"`
	Status              string           `json:"status"`
	CardToken           string           `json:"cardToken"`
	Transactions        []SubTransaction `json:"transactions"`
}

// FirstHash returns the hash of the first sub-transaction, or "".
func (r *RawAPITransaction) FirstHash() string {
	if len(r.Transactions) > 0 {
		return r.Transactions[0].Hash
	}
	return ""
}

// ScrapedTransaction is one row read off the dashboard's transaction table,
// already parsed from display text and reversed into oldest-first order by
// the scraper. Fields the page does not show carry defaults.
type ScrapedTransaction struct {
	CreatedAt       string          `json:"createdAt"` // day-granular header date ("MAR 5, 2024")
	MerchantName    string          `json:"merchantName"`
	BillingAmount   decimal.Decimal `json:"billingAmount"`  // major units, parsed from display text
	CurrencySymbol  string          `json:"currencySymbol"` // glyph as rendered: £, $ or €
	MCC             string          `json:"mcc"`            // "0000": the page never shows MCCs
	TransactionType TransactionType `json:"transactionType"`
	Status          Status          `json:"status"`
	Country         string          `json:"country"`
}
