package cashback

import (
	"context"
	"testing"
	"time"

	"cardlens/internal/models"
	"cardlens/internal/rates"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		staked   float64
		og       bool
		expected float64
	}{
		{"below threshold", 0.099, false, 0},
		{"zero", 0, false, 0},
		{"tier one lower bound", 0.1, false, 0.01},
		{"tier one lower bound with og", 0.1, true, 0.02},
		{"tier two lower bound", 1, false, 0.02},
		{"tier three lower bound", 10, false, 0.03},
		{"flat tier", 100, false, 0.04},
		{"flat tier with og capped", 100, true, 0.05},
		{"huge stake stays flat", 5000, false, 0.04},
		{"og without stake earns nothing", 0.05, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Rate(tt.staked, tt.og), 1e-12)
		})
	}
}

func TestRateInterpolation(t *testing.T) {
	// Midpoint of the 1..10 tier interpolates halfway between 2% and 3%.
	assert.InDelta(t, 0.025, Rate(5.5, false), 1e-9)
	// Midpoint of the 10..100 tier.
	assert.InDelta(t, 0.035, Rate(55, false), 1e-9)
}

func TestWeeklyCapBoundaries(t *testing.T) {
	tests := []struct {
		staked   float64
		expected int64
	}{
		{0.05, 0},
		{0.1, 250},
		{1, 375},
		{10, 500},
		{100, 1250},
		{250, 1250},
	}
	for _, tt := range tests {
		assert.True(t, WeeklyCapUSD(tt.staked).Equal(decimal.NewFromInt(tt.expected)),
			"cap(%v)", tt.staked)
	}
}

func TestParseWeek(t *testing.T) {
	w, err := ParseWeek("2024-03-03|2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), w.End)

	// End day is inclusive to the last millisecond.
	assert.True(t, w.Contains(time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC)))

	_, err = ParseWeek("2024-03-03")
	assert.Error(t, err)
	_, err = ParseWeek("junk|2024-03-09")
	assert.Error(t, err)
}

func TestWeekOf(t *testing.T) {
	// 2024-03-06 is a Wednesday; its week runs Sunday the 3rd to Saturday the 9th.
	w := WeekOf(time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), w.End)
}

type stubRates struct {
	rates rates.Rates
}

func (s stubRates) Fetch(ctx context.Context) rates.Rates { return s.rates }

func weekTx(rowIndex int, clearedAt string, amount float64, code models.CurrencyCode) models.Transaction {
	return models.Transaction{
		RowIndex:        rowIndex,
		CreatedAt:       clearedAt,
		ClearedAt:       clearedAt,
		BillingAmount:   decimal.NewFromFloat(amount),
		BillingCurrency: models.Currency{Code: code},
		MCC:             "5812",
		TransactionType: models.TypePurchase,
		Status:          models.StatusApproved,
		Kind:            models.KindPayment,
	}
}

func TestCalculate(t *testing.T) {
	week := Week{
		Start: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	transactions := []models.Transaction{
		weekTx(0, "2024-03-04T10:00:00Z", 100, models.USD),
		weekTx(1, "2024-03-05T10:00:00Z", 80, models.GBP), // 80 / 0.8 = 100 USD
		weekTx(2, "2024-02-01T10:00:00Z", 500, models.USD), // outside window
	}
	// ineligible variants
	pending := weekTx(3, "2024-03-05T10:00:00Z", 10, models.USD)
	pending.IsPending = true
	atm := weekTx(4, "2024-03-05T10:00:00Z", 10, models.USD)
	atm.TransactionType = models.TypeATMWithdrawal
	excludedMCC := weekTx(5, "2024-03-05T10:00:00Z", 10, models.USD)
	excludedMCC.MCC = "6011"
	reversal := weekTx(6, "2024-03-05T10:00:00Z", 10, models.USD)
	reversal.Kind = models.KindReversal
	transactions = append(transactions, pending, atm, excludedMCC, reversal)

	src := stubRates{rates: rates.Rates{
		USDToEUR: decimal.NewFromFloat(0.9),
		USDToGBP: decimal.NewFromFloat(0.8),
	}}

	// 1 GNO: 2% rate, 375 cap
	res := Calculate(context.Background(), transactions, week, 1, false, src)

	require.Len(t, res.Eligible, 2)
	assert.True(t, res.EligibleSpendUSD.Equal(decimal.NewFromInt(200)), "got %s", res.EligibleSpendUSD)
	assert.True(t, res.WeeklyCapUSD.Equal(decimal.NewFromInt(375)))
	// under the cap: cashback on the full 200
	assert.True(t, res.TotalCashbackUSD.Equal(decimal.NewFromInt(4)), "got %s", res.TotalCashbackUSD)
	assert.True(t, res.RemainingEligibleUSD.Equal(decimal.NewFromInt(175)))
	assert.InDelta(t, 2.0, res.RatePercent, 1e-9)
	assert.False(t, res.RatesUnavailable)

	// raw local-currency sums are pre-conversion
	assert.True(t, res.SumsByCurrency[models.USD].Equal(decimal.NewFromInt(100)))
	assert.True(t, res.SumsByCurrency[models.GBP].Equal(decimal.NewFromInt(80)))
}

func TestCalculateAppliesCap(t *testing.T) {
	week := Week{
		Start: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	transactions := []models.Transaction{
		weekTx(0, "2024-03-04T10:00:00Z", 400, models.USD),
	}
	src := stubRates{rates: rates.Fallback()}

	// 0.1 GNO: 1% rate, 250 cap
	res := Calculate(context.Background(), transactions, week, 0.1, false, src)
	assert.True(t, res.EligibleSpendUSD.Equal(decimal.NewFromInt(400)))
	// capped at 250, 1% of that
	assert.True(t, res.TotalCashbackUSD.Equal(decimal.NewFromFloat(2.5)), "got %s", res.TotalCashbackUSD)
	assert.True(t, res.RemainingEligibleUSD.IsZero())
	assert.True(t, res.RatesUnavailable)
}

func TestCalculateFallsBackToCreatedAt(t *testing.T) {
	week := Week{
		Start: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	tx := weekTx(0, "", 50, models.USD)
	tx.ClearedAt = ""
	tx.CreatedAt = "2024-03-04T10:00:00Z"

	res := Calculate(context.Background(), []models.Transaction{tx}, week, 1, false, stubRates{rates: rates.Fallback()})
	require.Len(t, res.Eligible, 1)

	undated := weekTx(1, "", 50, models.USD)
	undated.ClearedAt = ""
	undated.CreatedAt = ""
	res = Calculate(context.Background(), []models.Transaction{undated}, week, 1, false, stubRates{rates: rates.Fallback()})
	assert.Empty(t, res.Eligible)
}
