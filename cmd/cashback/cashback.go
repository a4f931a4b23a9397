// Package cashback handles the weekly cashback report command
package cashback

import (
	"context"
	"fmt"
	"time"

	"cardlens/cmd/root"
	"cardlens/internal/cashback"
	"cardlens/internal/rates"

	"github.com/spf13/cobra"
)

// Cmd represents the cashback command
var Cmd = &cobra.Command{
	Use:   "cashback",
	Short: "Report weekly cashback for the transactions",
	Long: `Compute the cashback earned in a week: eligible spend is summed per
currency, converted to USD, capped by the staking tier and multiplied by the
rate your GNO balance earns.`,
	Run: cashbackFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Week, "week", "w", "", "Week window as 'start|end' (YYYY-MM-DD); defaults to the current week")
	Cmd.Flags().Float64VarP(&root.StakedGNO, "gno", "g", 0, "Staked GNO balance")
	Cmd.Flags().BoolVar(&root.HasOGNFT, "og", false, "Holder of the OG NFT (+1% cashback)")
}

func cashbackFunc(cmd *cobra.Command, args []string) {
	week := cashback.WeekOf(time.Now().UTC())
	if root.Week != "" {
		parsed, err := cashback.ParseWeek(root.Week)
		if err != nil {
			root.Log.Fatalf("Invalid --week value: %v", err)
		}
		week = parsed
	}

	svc := root.NewService()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	transactions, err := svc.Refresh(ctx)
	if err != nil {
		root.Log.Fatalf("Error fetching transactions: %v", err)
	}

	endpoints := rates.DefaultEndpoints
	if root.Cfg != nil && len(root.Cfg.Rates.Endpoints) > 0 {
		endpoints = root.Cfg.Rates.Endpoints
	}
	src := rates.NewClient(endpoints, nil)

	result := cashback.Calculate(ctx, transactions, week, root.StakedGNO, root.HasOGNFT, src)

	fmt.Printf("Week %s to %s\n", week.Start.Format("2006-01-02"), week.End.Format("2006-01-02"))
	fmt.Printf("Eligible transactions: %d\n", len(result.Eligible))
	for code, sum := range result.SumsByCurrency {
		fmt.Printf("  spend in %s: %s\n", code, sum.StringFixed(2))
	}
	fmt.Printf("Eligible spend (USD):  %s\n", result.EligibleSpendUSD.StringFixed(2))
	fmt.Printf("Weekly cap (USD):      %s\n", result.WeeklyCapUSD.StringFixed(2))
	fmt.Printf("Remaining (USD):       %s\n", result.RemainingEligibleUSD.StringFixed(2))
	fmt.Printf("Rate:                  %.2f%%\n", result.RatePercent)
	fmt.Printf("Cashback (USD):        %s\n", result.TotalCashbackUSD.StringFixed(2))
	if result.RatesUnavailable {
		fmt.Println("Warning: exchange rates unavailable, amounts converted 1:1")
	}
}
