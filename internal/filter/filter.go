// Package filter applies the dashboard's compound transaction filter as a
// pure conjunctive predicate.
package filter

import (
	"sort"
	"strings"

	"cardlens/internal/category"
	"cardlens/internal/models"
)

// CashbackFilter is the three-state cashback criterion.
type CashbackFilter int

const (
	CashbackAll CashbackFilter = iota
	CashbackEligibleOnly
	CashbackIneligibleOnly
)

// Criteria describes one filter pass. Zero values mean "all": an empty
// Criteria is the identity filter.
type Criteria struct {
	Merchant  string // case-insensitive substring of the merchant name
	Country   string // exact country name
	Category  models.Category
	Tag       string // matches any of the three tag slots
	CardToken string
	Month     int // 1-12; 0 disables
	Year      int // 0 disables
	Cashback  CashbackFilter
}

// Apply returns the transactions satisfying every active criterion. The
// input is never mutated. Records with unparseable dates pass the month and
// year criteria only when those criteria are inactive; an active date
// criterion cannot match a record without a date, but an inactive one never
// drops it.
func Apply(transactions []models.Transaction, c Criteria) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		if matches(&transactions[i], c) {
			out = append(out, transactions[i])
		}
	}
	return out
}

func matches(tx *models.Transaction, c Criteria) bool {
	if c.Merchant != "" &&
		!strings.Contains(strings.ToLower(tx.Merchant.Name), strings.ToLower(c.Merchant)) {
		return false
	}
	if c.Country != "" && tx.Country != c.Country {
		return false
	}
	if c.Category != "" && tx.Category != c.Category {
		return false
	}
	if c.Tag != "" && !tx.HasTag(c.Tag) {
		return false
	}
	if c.CardToken != "" && tx.CardToken != c.CardToken {
		return false
	}

	if c.Month != 0 || c.Year != 0 {
		if when, ok := models.ParseWhen(tx.CreatedAt); ok {
			u := when.UTC()
			if c.Month != 0 && int(u.Month()) != c.Month {
				return false
			}
			if c.Year != 0 && u.Year() != c.Year {
				return false
			}
		}
		// Unparseable dates leave date criteria satisfied, mirroring the
		// dashboard: bad data is surfaced, not silently dropped.
	}

	switch c.Cashback {
	case CashbackEligibleOnly:
		return category.EligibleForCashback(tx)
	case CashbackIneligibleOnly:
		return !category.EligibleForCashback(tx)
	}
	return true
}

// Months returns the distinct months (1-12) present in the set, ascending.
// Used to populate the month selector.
func Months(transactions []models.Transaction) []int {
	seen := map[int]bool{}
	for i := range transactions {
		if when, ok := models.ParseWhen(transactions[i].CreatedAt); ok {
			seen[int(when.UTC().Month())] = true
		}
	}
	return sortedKeys(seen)
}

// Years returns the distinct years present in the set, ascending.
func Years(transactions []models.Transaction) []int {
	seen := map[int]bool{}
	for i := range transactions {
		if when, ok := models.ParseWhen(transactions[i].CreatedAt); ok {
			seen[when.UTC().Year()] = true
		}
	}
	return sortedKeys(seen)
}

// Countries returns the distinct country names present in the set, sorted.
func Countries(transactions []models.Transaction) []string {
	seen := map[string]bool{}
	for i := range transactions {
		if c := transactions[i].Country; c != "" {
			seen[c] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TagValues returns the distinct non-empty tag values across all slots,
// sorted. Used to populate the custom-tag selector.
func TagValues(transactions []models.Transaction) []string {
	seen := map[string]bool{}
	for i := range transactions {
		for _, tag := range []string{transactions[i].Tag1, transactions[i].Tag2, transactions[i].Tag3} {
			if tag != "" {
				seen[tag] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
