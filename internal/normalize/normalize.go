// Package normalize reconciles the two independently obtained transaction
// lists, paginated API results and scraped dashboard rows, into one
// canonical record set.
//
// Reconciliation is positional: records pair up by list index, with the
// longer list acting as the skeleton. This matches the dashboard's observed
// behavior and is deliberately not replaced by content-key matching; tags
// keyed by rowIndex survive only while source ordering is stable.
package normalize

import (
	"strconv"
	"strings"

	"cardlens/internal/category"
	"cardlens/internal/models"

	"github.com/shopspring/decimal"
)

// Normalize merges API results and scraped rows into canonical transactions.
// Both inputs are oldest-first. API values win over scraped values, scraped
// values win over defaults, and no malformed field ever aborts the batch:
// bad numbers become zero, bad codes become "0000", bad dates stay "".
// savedTags is the persisted rowIndex keyed tag map; missing entries leave
// tags empty.
func Normalize(api []models.RawAPITransaction, scraped []models.ScrapedTransaction, savedTags map[int]models.Tags) []models.Transaction {
	length := len(scraped)
	if len(api) > length {
		length = len(api)
	}

	out := make([]models.Transaction, 0, length)
	for i := 0; i < length; i++ {
		var apiTx models.RawAPITransaction
		if i < len(api) {
			apiTx = api[i]
		}
		var scrapedTx models.ScrapedTransaction
		if i < len(scraped) {
			scrapedTx = scraped[i]
		}

		tx := merge(&apiTx, &scrapedTx)
		tx.RowIndex = i
		tx.Category = category.Classify(tx.MCC)
		tx.Tags = savedTags[i]
		out = append(out, tx)
	}
	return out
}

func merge(apiTx *models.RawAPITransaction, scrapedTx *models.ScrapedTransaction) models.Transaction {
	tx := models.Transaction{
		CreatedAt: firstNonEmpty(apiTx.CreatedAt, apiTx.ClearedAt, scrapedTx.CreatedAt),
		ClearedAt: firstNonEmpty(apiTx.ClearedAt, apiTx.CreatedAt, scrapedTx.CreatedAt),
		IsPending: apiTx.IsPending || scrapedTx.Status == models.StatusPending,
		MCC:       normalizeMCC(firstNonEmpty(apiTx.MCC, scrapedTx.MCC)),
		CardToken: apiTx.CardToken,
		Hash:      apiTx.FirstHash(),
	}

	// API amounts arrive in minor units; scraped amounts were already parsed
	// from display text in major units.
	if apiTx.TransactionAmount != "" {
		tx.TransactionAmount = decimal.NewNullDecimal(models.MinorUnitsToDecimal(apiTx.TransactionAmount))
	}
	if apiTx.BillingAmount != "" {
		tx.BillingAmount = models.MinorUnitsToDecimal(apiTx.BillingAmount)
	} else {
		tx.BillingAmount = scrapedTx.BillingAmount
	}

	if apiTx.TransactionCurrency != nil && apiTx.TransactionCurrency.Symbol != "" {
		tx.TransactionCurrency = models.ParseCurrency(apiTx.TransactionCurrency.Symbol)
	}
	switch {
	case apiTx.BillingCurrency != nil && apiTx.BillingCurrency.Symbol != "":
		tx.BillingCurrency = models.ParseCurrency(apiTx.BillingCurrency.Symbol)
	case scrapedTx.CurrencySymbol != "":
		tx.BillingCurrency = models.ParseCurrency(scrapedTx.CurrencySymbol)
	default:
		tx.BillingCurrency = models.Currency{Code: models.GBP}
	}

	tx.Merchant = models.Merchant{
		Name: scrapedTx.MerchantName,
		City: "",
	}
	if apiTx.Merchant != nil {
		if tx.Merchant.Name == "" {
			tx.Merchant.Name = collapseWhitespace(apiTx.Merchant.Name)
		}
		tx.Merchant.City = apiTx.Merchant.City
		tx.Merchant.Country = apiTx.Merchant.Country.Name
	}
	tx.Country = firstNonEmpty(tx.Merchant.Country, scrapedTx.Country, "Unknown")

	// The API reports ordinary card payments as kind "Payment"; the canonical
	// type for those stays PURCHASE.
	switch {
	case apiTx.Kind == string(models.KindPayment):
		tx.TransactionType = models.TypePurchase
	case apiTx.Kind != "":
		tx.TransactionType = models.TransactionType(apiTx.Kind)
	case scrapedTx.TransactionType != "":
		tx.TransactionType = scrapedTx.TransactionType
	default:
		tx.TransactionType = models.TypePurchase
	}

	tx.Status = models.StatusApproved
	if apiTx.Status != "" {
		tx.Status = models.Status(apiTx.Status)
	} else if scrapedTx.Status != "" {
		tx.Status = scrapedTx.Status
	}

	tx.Kind = models.KindPayment
	if apiTx.Kind != "" {
		tx.Kind = models.Kind(apiTx.Kind)
	}

	return tx
}

// normalizeMCC enforces the 4-digit invariant: numeric codes shorter than
// four digits are zero-padded, anything else collapses to the sentinel.
func normalizeMCC(mcc string) string {
	s := strings.TrimSpace(mcc)
	if s == "" {
		return "0000"
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "0000"
	}
	for len(s) < 4 {
		s = "0" + s
	}
	if len(s) > 4 {
		return "0000"
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
