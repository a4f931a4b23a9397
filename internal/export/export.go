// Package export writes the reconciled transaction list to CSV for use in
// spreadsheet tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"cardlens/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// row is the CSV shape of one exported transaction. Everything is a string so
// absent values render as empty cells rather than zeroes.
type row struct {
	RowIndex            int    `csv:"rowIndex"`
	CreatedAt           string `csv:"createdAt"`
	ClearedAt           string `csv:"clearedAt"`
	IsPending           bool   `csv:"isPending"`
	TransactionAmount   string `csv:"transactionAmount"`
	TransactionCurrency string `csv:"transactionCurrency"`
	BillingAmount       string `csv:"billingAmount"`
	BillingCurrency     string `csv:"billingCurrency"`
	MCC                 string `csv:"mcc"`
	MCCCategory         string `csv:"mccCategory"`
	MerchantName        string `csv:"merchantName"`
	MerchantCity        string `csv:"merchantCity"`
	MerchantCountry     string `csv:"merchantCountry"`
	Country             string `csv:"country"`
	Card                string `csv:"card"`
	Kind                string `csv:"kind"`
	Status              string `csv:"status"`
	TransactionHash     string `csv:"transactionHash"`
	Tag1                string `csv:"tag1"`
	Tag2                string `csv:"tag2"`
	Tag3                string `csv:"tag3"`
}

// toRow renders one transaction. position is the row's place in the output,
// which after filtering can differ from the record's stable RowIndex.
func toRow(tx models.Transaction, cards models.CardMap, position int) row {
	r := row{
		RowIndex:            position,
		CreatedAt:           tx.CreatedAt,
		ClearedAt:           tx.ClearedAt,
		IsPending:           tx.IsPending,
		TransactionCurrency: string(tx.TransactionCurrency.Code),
		BillingAmount:       tx.BillingAmount.StringFixed(2),
		BillingCurrency:     string(tx.BillingCurrency.Code),
		MCC:                 tx.MCC,
		MCCCategory:         string(tx.Category),
		MerchantName:        tx.Merchant.Name,
		MerchantCity:        tx.Merchant.City,
		MerchantCountry:     tx.Merchant.Country,
		Country:             tx.Country,
		Card:                cards.LastFour(tx.CardToken),
		Kind:                string(tx.Kind),
		Status:              string(tx.Status),
		TransactionHash:     tx.Hash,
		Tag1:                tx.Tag1,
		Tag2:                tx.Tag2,
		Tag3:                tx.Tag3,
	}
	if tx.TransactionAmount.Valid {
		r.TransactionAmount = tx.TransactionAmount.Decimal.StringFixed(2)
	}
	if r.TransactionAmount == "" {
		r.TransactionCurrency = ""
	}
	return r
}

// Write renders transactions as CSV onto w. A UTF-8 BOM is emitted first so
// spreadsheet applications pick the right encoding.
func Write(w io.Writer, transactions []models.Transaction, cards models.CardMap, delimiter rune) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return fmt.Errorf("error writing BOM: %w", err)
	}

	rows := make([]row, 0, len(transactions))
	for i, tx := range transactions {
		rows = append(rows, toRow(tx, cards, i))
	}

	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile exports transactions to the given path.
func WriteFile(path string, transactions []models.Transaction, cards models.CardMap, delimiter rune) error {
	file, err := os.Create(path)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := Write(file, transactions, cards, delimiter); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"count": len(transactions),
	}).Info("Successfully wrote transactions to CSV file")
	return nil
}

// FileName builds the default export file name for the given day key.
func FileName(dayKey string) string {
	return "transactions_" + dayKey + ".csv"
}
