package tagcsv

import (
	"strings"

	"cardlens/internal/models"
)

// Pair couples a parsed CSV row with the transaction it matched.
type Pair struct {
	Row    Row
	Result *MatchResult
}

// Summary reports the outcome of a tag load for the user-facing message:
// "matched N, skipped M".
type Summary struct {
	Matched int // rows that found a transaction
	Skipped int // rows that found none
	Applied int // matched transactions whose tags actually changed
}

// MatchAll runs Match over every row and splits the results into pairs and a
// skip count. Unmatched rows are reported in the summary rather than failing
// the batch.
func MatchAll(rows []Row, transactions []models.Transaction) ([]Pair, Summary) {
	var pairs []Pair
	var summary Summary
	for _, row := range rows {
		if res := Match(row, transactions); res != nil {
			pairs = append(pairs, Pair{Row: row, Result: res})
			summary.Matched++
		} else {
			summary.Skipped++
		}
	}
	return pairs, summary
}

// Apply writes CSV tags onto the matched transactions. Only tag fields whose
// column exists in the file are written; empty cells in a present column
// clear the tag. Returns the number of transactions whose tags changed.
func Apply(pairs []Pair) int {
	applied := 0
	for _, p := range pairs {
		tx := p.Result.Transaction
		changed := false

		if p.Row.HasTag1 {
			if v := strings.TrimSpace(p.Row.Tag1); tx.Tag1 != v {
				tx.Tag1 = v
				changed = true
			}
		}
		if p.Row.HasTag2 {
			if v := strings.TrimSpace(p.Row.Tag2); tx.Tag2 != v {
				tx.Tag2 = v
				changed = true
			}
		}
		if p.Row.HasTag3 {
			if v := strings.TrimSpace(p.Row.Tag3); tx.Tag3 != v {
				tx.Tag3 = v
				changed = true
			}
		}

		if changed {
			applied++
		}
	}
	return applied
}
