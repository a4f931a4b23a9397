package category

import (
	"fmt"
	"testing"

	"cardlens/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mcc      string
		expected models.Category
	}{
		{"groceries code", "5411", models.CategoryGroceries},
		{"dining code", "5812", models.CategoryDining},
		{"fuel code", "5541", models.CategoryFuel},
		{"cash withdrawal", "6010", models.CategoryCash},
		{"inside transport range", "3100", models.CategoryTransport},
		{"transport range upper bound", "3299", models.CategoryTransport},
		{"holidays range lower bound", "3501", models.CategoryHolidays},
		{"earlier rule wins for 763", "0763", models.CategoryAgricultural},
		{"earlier rule wins for 7372", "7372", models.CategoryDigital},
		{"earlier rule wins for 5681", "5681", models.CategoryShopping},
		{"unknown code", "9998", models.CategoryOther},
		{"sentinel", "0000", models.CategoryOther},
		{"empty", "", models.CategoryOther},
		{"non-numeric", "12ab", models.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.mcc))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every 4-digit code must land in the closed label set.
	valid := make(map[models.Category]bool, len(models.AllCategories))
	for _, c := range models.AllCategories {
		valid[c] = true
	}
	for n := 0; n <= 9999; n++ {
		got := Classify(fmt.Sprintf("%04d", n))
		if !valid[got] {
			t.Fatalf("Classify(%04d) returned unexpected label %q", n, got)
		}
	}
}

func TestNoCashbackMCC(t *testing.T) {
	assert.True(t, NoCashbackMCC("6010"))
	assert.True(t, NoCashbackMCC("7995"))
	assert.False(t, NoCashbackMCC("5411"))
	assert.False(t, NoCashbackMCC("0000"))
}

func TestEligibleForCashback(t *testing.T) {
	base := func() *models.Transaction {
		return &models.Transaction{
			MCC:             "5411",
			TransactionType: models.TypePurchase,
			Status:          models.StatusApproved,
			Kind:            models.KindPayment,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*models.Transaction)
		eligible bool
	}{
		{"approved purchase", func(tx *models.Transaction) {}, true},
		{"excluded mcc", func(tx *models.Transaction) { tx.MCC = "6011" }, false},
		{"missing mcc", func(tx *models.Transaction) { tx.MCC = "" }, false},
		{"atm withdrawal", func(tx *models.Transaction) { tx.TransactionType = models.TypeATMWithdrawal }, false},
		{"money transfer", func(tx *models.Transaction) { tx.TransactionType = models.TypeMoneyTransfer }, false},
		{"refunded", func(tx *models.Transaction) { tx.TransactionType = models.TypeRefunded }, false},
		{"pending status", func(tx *models.Transaction) { tx.Status = models.StatusPending }, false},
		{"declined status", func(tx *models.Transaction) { tx.Status = models.StatusDeclined }, false},
		{"reversal", func(tx *models.Transaction) { tx.Kind = models.KindReversal }, false},
		{"sentinel mcc still eligible", func(tx *models.Transaction) { tx.MCC = "0000" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := base()
			tt.mutate(tx)
			assert.Equal(t, tt.eligible, EligibleForCashback(tx))
		})
	}
}
