// Package cashback estimates weekly cashback from the staked GNO amount and
// the eligible spend inside a Sunday-to-Saturday window.
package cashback

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"cardlens/internal/category"
	"cardlens/internal/models"
	"cardlens/internal/rates"

	"github.com/shopspring/decimal"
)

// Rate returns the cashback rate as a multiplier (0.04 for 4%). The base
// rate interpolates linearly inside each staking tier and flattens at 4%
// from 100 GNO; the OG NFT adds one percentage point, capped at 5%. Stakes
// under 0.1 GNO earn nothing.
func Rate(stakedGNO float64, hasOGNFT bool) float64 {
	var base float64
	switch {
	case stakedGNO >= 0.1 && stakedGNO < 1:
		base = 1 + (stakedGNO-0.1)/(1-0.1)*(2-1)
	case stakedGNO >= 1 && stakedGNO < 10:
		base = 2 + (stakedGNO-1)/(10-1)*(3-2)
	case stakedGNO >= 10 && stakedGNO < 100:
		base = 3 + (stakedGNO-10)/(100-10)*(4-3)
	case stakedGNO >= 100:
		base = 4
	}
	base = math.Min(base, 4)

	total := base
	if hasOGNFT && stakedGNO >= 0.1 {
		total = math.Min(base+1, 5)
	}
	return total / 100
}

// capTiers maps staking thresholds to weekly spend caps in USD, highest
// tier first.
var capTiers = []struct {
	minGNO float64
	capUSD int64
}{
	{100, 1250},
	{10, 500},
	{1, 375},
	{0.1, 250},
}

// WeeklyCapUSD returns the weekly eligible-spend cap for a staked amount.
func WeeklyCapUSD(stakedGNO float64) decimal.Decimal {
	if math.IsNaN(stakedGNO) || stakedGNO < 0.1 {
		return decimal.Zero
	}
	for _, tier := range capTiers {
		if stakedGNO >= tier.minGNO {
			return decimal.NewFromInt(tier.capUSD)
		}
	}
	return decimal.Zero
}

// Week is a cashback accrual window: Start is a Sunday, End the following
// Saturday, both UTC midnight. Transactions count up to the last millisecond
// of the End day.
type Week struct {
	Start time.Time
	End   time.Time
}

// ParseWeek parses the "start|end" form the week selector produces.
func ParseWeek(s string) (Week, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return Week{}, fmt.Errorf("week must be in start|end form, got %q", s)
	}
	start, ok := models.ParseWhen(parts[0])
	if !ok {
		return Week{}, fmt.Errorf("invalid week start %q", parts[0])
	}
	end, ok := models.ParseWhen(parts[1])
	if !ok {
		return Week{}, fmt.Errorf("invalid week end %q", parts[1])
	}
	return Week{Start: startOfDayUTC(start), End: startOfDayUTC(end)}, nil
}

// WeekOf returns the Sunday-to-Saturday week containing t.
func WeekOf(t time.Time) Week {
	day := startOfDayUTC(t)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// cutoff is the inclusive end of the window.
func (w Week) cutoff() time.Time {
	return w.End.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// Contains reports whether t falls inside the window.
func (w Week) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(w.Start) && !u.After(w.cutoff())
}

// Entry is one eligible transaction with its converted amount.
type Entry struct {
	Transaction models.Transaction
	AmountUSD   decimal.Decimal
}

// Result is the weekly cashback report. Monetary fields are rounded to two
// decimals; SumsByCurrency holds the raw pre-conversion local sums.
type Result struct {
	TotalCashbackUSD     decimal.Decimal
	RatePercent          float64
	EligibleSpendUSD     decimal.Decimal
	WeeklyCapUSD         decimal.Decimal
	RemainingEligibleUSD decimal.Decimal
	Eligible             []Entry
	SumsByCurrency       map[models.CurrencyCode]decimal.Decimal
	RatesUnavailable     bool
}

// RatesSource supplies conversion rates; satisfied by *rates.Client.
type RatesSource interface {
	Fetch(ctx context.Context) rates.Rates
}

// Calculate sums the eligible spend within the week, converts it to USD,
// applies the staking cap and rate, and reports the remaining headroom. A
// transaction counts when it is approved, not pending, not a reversal, its
// cleared (or created) date falls in the window, and its MCC and type pass
// the eligibility rules.
func Calculate(ctx context.Context, transactions []models.Transaction, week Week, stakedGNO float64, hasOGNFT bool, src RatesSource) Result {
	rate := Rate(stakedGNO, hasOGNFT)
	weeklyCap := WeeklyCapUSD(stakedGNO)

	var eligible []models.Transaction
	for i := range transactions {
		tx := &transactions[i]
		if tx.IsPending || tx.Status != models.StatusApproved || tx.Kind == models.KindReversal {
			continue
		}
		when, ok := models.ParseWhen(tx.EffectiveDate())
		if !ok || !week.Contains(when) {
			continue
		}
		if tx.MCC == "" || category.NoCashbackMCC(tx.MCC) {
			continue
		}
		switch tx.TransactionType {
		case models.TypeATMWithdrawal, models.TypeMoneyTransfer, models.TypeRefunded:
			continue
		}
		eligible = append(eligible, *tx)
	}

	fx := src.Fetch(ctx)

	spendUSD := decimal.Zero
	sums := make(map[models.CurrencyCode]decimal.Decimal)
	entries := make([]Entry, 0, len(eligible))
	for _, tx := range eligible {
		code := tx.BillingCurrency.Code
		if code == "" {
			code = models.USD
		}
		sums[code] = sums[code].Add(tx.BillingAmount)
		usd := fx.ToUSD(tx.BillingAmount, code)
		spendUSD = spendUSD.Add(usd)
		entries = append(entries, Entry{Transaction: tx, AmountUSD: usd.Round(2)})
	}

	capped := decimal.Min(spendUSD, weeklyCap)
	cashbackUSD := capped.Mul(decimal.NewFromFloat(rate))
	remaining := decimal.Max(decimal.Zero, weeklyCap.Sub(spendUSD))

	return Result{
		TotalCashbackUSD:     cashbackUSD.Round(2),
		RatePercent:          rate * 100,
		EligibleSpendUSD:     spendUSD.Round(2),
		WeeklyCapUSD:         weeklyCap,
		RemainingEligibleUSD: remaining.Round(2),
		Eligible:             entries,
		SumsByCurrency:       sums,
		RatesUnavailable:     fx.Unavailable,
	}
}
