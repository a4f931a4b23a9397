// Package tagcsv loads user-supplied tag CSVs and matches their rows back to
// canonical transactions. Files come from arbitrary spreadsheet exports, so
// columns are located by header heuristics rather than a fixed schema.
package tagcsv

import (
	"encoding/csv"
	"io"
	"strings"

	"cardlens/internal/models"
	"cardlens/internal/parsererror"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Row is one usable CSV row. The HasTagN flags record whether the tag column
// exists in the file at all: a present-but-empty cell clears the target tag,
// an absent column leaves it untouched.
type Row struct {
	CreatedAt string
	Merchant  string
	Amount    string
	Tag1      string
	Tag2      string
	Tag3      string
	HasTag1   bool
	HasTag2   bool
	HasTag3   bool
	TxHash    string
	// CSVRowIndex is the 1-based data row position, for user-facing messages.
	CSVRowIndex int
}

// Header aliases, matched case-insensitively as substrings, in order.
var (
	dateAliases     = []string{"createdat", "created_at", "date", "created", "timestamp"}
	merchantAliases = []string{"merchant", "merchantname", "merchant_name", "description"}
	amountAliases   = []string{"amount", "billingamount", "billing_amount", "value"}
	tag1Aliases     = []string{"tag1", "tag_1", "tag 1", "category1", "label1"}
	tag2Aliases     = []string{"tag2", "tag_2", "tag 2", "category2", "label2"}
	tag3Aliases     = []string{"tag3", "tag_3", "tag 3", "category3", "label3"}
	hashAliases     = []string{"txhash", "tx_hash", "transactionhash", "transaction_hash", "hash"}
)

func findColumn(headers []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if strings.Contains(h, alias) {
				return i
			}
		}
	}
	return -1
}

// Parse reads a tag CSV. Structural problems (fewer than two lines, neither
// a date nor a hash column, no tag column) return a *parsererror.ParseError
// and abort the load; defective individual rows are skipped silently.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.ParseError{Reason: err.Error()}
	}
	if len(records) < 2 {
		return nil, &parsererror.ParseError{Reason: "file must contain a header row and at least one data row"}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(stripBOM(h)))
	}

	dateIdx := findColumn(headers, dateAliases)
	merchantIdx := findColumn(headers, merchantAliases)
	amountIdx := findColumn(headers, amountAliases)
	tag1Idx := findColumn(headers, tag1Aliases)
	tag2Idx := findColumn(headers, tag2Aliases)
	tag3Idx := findColumn(headers, tag3Aliases)
	hashIdx := findColumn(headers, hashAliases)

	if dateIdx == -1 && hashIdx == -1 {
		return nil, &parsererror.ParseError{
			Reason: "no date column (createdAt, created_at, date, created, timestamp) or transaction hash column (txHash, tx_hash, transactionHash, transaction_hash, hash) found",
		}
	}
	if tag1Idx == -1 && tag2Idx == -1 && tag3Idx == -1 {
		return nil, &parsererror.ParseError{Reason: "no tag column (tag1, tag2 or tag3) found"}
	}

	var rows []Row
	for i, record := range records[1:] {
		if blankRecord(record) {
			continue
		}

		row := Row{
			CreatedAt:   cell(record, dateIdx),
			Merchant:    cell(record, merchantIdx),
			Amount:      cell(record, amountIdx),
			Tag1:        cell(record, tag1Idx),
			Tag2:        cell(record, tag2Idx),
			Tag3:        cell(record, tag3Idx),
			TxHash:      cell(record, hashIdx),
			HasTag1:     tag1Idx != -1 && tag1Idx < len(record),
			HasTag2:     tag2Idx != -1 && tag2Idx < len(record),
			HasTag3:     tag3Idx != -1 && tag3Idx < len(record),
			CSVRowIndex: i + 1,
		}

		// A row needs something to match on,
		if row.CreatedAt == "" && row.TxHash == "" {
			continue
		}
		if row.TxHash == "" && models.DayKey(row.CreatedAt) == "" {
			log.WithFields(logrus.Fields{
				"row":  row.CSVRowIndex,
				"date": row.CreatedAt,
			}).Debug("Skipping row with unparseable date and no hash")
			continue
		}
		// and something to apply.
		if row.Tag1 == "" && row.Tag2 == "" && row.Tag3 == "" {
			continue
		}

		rows = append(rows, row)
	}

	log.WithField("count", len(rows)).Info("Parsed tag CSV")
	return rows, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func blankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
