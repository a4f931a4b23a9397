package tagcsv

import (
	"strings"

	"cardlens/internal/models"

	"github.com/shopspring/decimal"
)

// Confidence grades how strong a CSV-to-transaction match is, driven by
// which tier produced it.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MatchType identifies the tier that produced a match.
type MatchType string

const (
	MatchTxHashExact    MatchType = "txhash_exact"
	MatchTxHashMultiple MatchType = "txhash_multiple"
	MatchSingleDate     MatchType = "single_date"
	MatchDateMerchant   MatchType = "date_merchant"
	MatchDateAmount     MatchType = "date_amount"
	MatchDateFallback   MatchType = "date_fallback"
)

// MatchResult points at the matched transaction inside the caller's slice.
type MatchResult struct {
	Transaction *models.Transaction
	Confidence  Confidence
	MatchType   MatchType
}

// amountTolerance is how far apart a CSV amount and a billing amount may be
// and still count as the same transaction.
var amountTolerance = decimal.New(1, -2)

// Match finds the best transaction for a CSV row. Tiers are evaluated in
// order and the first success wins: transaction hash, then same-day
// narrowing by merchant, amount, and finally position. Returns nil when
// nothing matches; the caller counts those as skipped, not failed.
func Match(row Row, transactions []models.Transaction) *MatchResult {
	if hash := strings.TrimSpace(row.TxHash); hash != "" {
		if res := matchByHash(hash, transactions); res != nil {
			return res
		}
	}

	csvDay := models.DayKey(row.CreatedAt)
	if csvDay == "" {
		return nil
	}

	var sameDay []*models.Transaction
	for i := range transactions {
		if models.DayKey(transactions[i].CreatedAt) == csvDay {
			sameDay = append(sameDay, &transactions[i])
		}
	}
	if len(sameDay) == 0 {
		return nil
	}
	if len(sameDay) == 1 {
		return &MatchResult{Transaction: sameDay[0], Confidence: ConfidenceHigh, MatchType: MatchSingleDate}
	}

	var best *models.Transaction
	confidence := ConfidenceMedium

	if merchant := strings.ToLower(strings.TrimSpace(row.Merchant)); merchant != "" {
		var merchantMatches []*models.Transaction
		for _, tx := range sameDay {
			name := strings.ToLower(tx.Merchant.Name)
			if name != "" && (strings.Contains(name, merchant) || strings.Contains(merchant, name)) {
				merchantMatches = append(merchantMatches, tx)
			}
		}
		if len(merchantMatches) == 1 {
			return &MatchResult{Transaction: merchantMatches[0], Confidence: ConfidenceHigh, MatchType: MatchDateMerchant}
		}
		if len(merchantMatches) > 1 {
			best = merchantMatches[0]
		}
	}

	if best == nil && strings.TrimSpace(row.Amount) != "" {
		csvAmount := models.ParseAmount(row.Amount)
		var amountMatches []*models.Transaction
		for _, tx := range sameDay {
			if tx.BillingAmount.Sub(csvAmount).Abs().LessThan(amountTolerance) {
				amountMatches = append(amountMatches, tx)
			}
		}
		if len(amountMatches) == 1 {
			return &MatchResult{Transaction: amountMatches[0], Confidence: ConfidenceHigh, MatchType: MatchDateAmount}
		}
		if len(amountMatches) > 1 {
			best = amountMatches[0]
		}
	}

	if best == nil {
		best = sameDay[0]
		confidence = ConfidenceLow
	}

	return &MatchResult{Transaction: best, Confidence: confidence, MatchType: MatchDateFallback}
}

// matchByHash compares the row's hash against each transaction's lifted
// settlement hash, case-insensitively. Exact equality or, for hashes of at
// least 8 characters, substring overlap in either direction counts.
func matchByHash(hash string, transactions []models.Transaction) *MatchResult {
	csvHash := strings.ToLower(hash)

	var matches []*models.Transaction
	for i := range transactions {
		txHash := strings.ToLower(transactions[i].Hash)
		if txHash == "" {
			continue
		}
		if txHash == csvHash {
			matches = append(matches, &transactions[i])
			continue
		}
		if len(csvHash) >= 8 && (strings.Contains(txHash, csvHash) || strings.Contains(csvHash, txHash)) {
			matches = append(matches, &transactions[i])
		}
	}

	switch {
	case len(matches) == 1:
		return &MatchResult{Transaction: matches[0], Confidence: ConfidenceHigh, MatchType: MatchTxHashExact}
	case len(matches) > 1:
		return &MatchResult{Transaction: matches[0], Confidence: ConfidenceMedium, MatchType: MatchTxHashMultiple}
	}
	return nil
}
