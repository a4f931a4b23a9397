// Package export handles the transaction export command
package export

import (
	"context"
	"time"

	"cardlens/cmd/root"
	"cardlens/internal/export"
	"cardlens/internal/filter"
	"cardlens/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export reconciled transactions to CSV",
	Long: `Fetch transactions from the API, reconcile them with a scraped capture
when one is given, apply the requested filters and write the result as CSV.`,
	Run: exportFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.FilterMerchant, "merchant", "", "Keep transactions whose merchant name contains this text")
	Cmd.Flags().IntVar(&root.FilterMonth, "month", 0, "Keep transactions from this month (1-12)")
	Cmd.Flags().IntVar(&root.FilterYear, "year", 0, "Keep transactions from this year")
	Cmd.Flags().StringVar(&root.FilterCountry, "country", "", "Keep transactions from this country")
	Cmd.Flags().StringVar(&root.FilterCategory, "category", "", "Keep transactions in this merchant category")
	Cmd.Flags().StringVar(&root.FilterTag, "tag", "", "Keep transactions carrying this tag")
	Cmd.Flags().StringVar(&root.FilterCashback, "cashback", "", "Keep 'eligible' or 'ineligible' transactions only")
}

func exportFunc(cmd *cobra.Command, args []string) {
	svc := root.NewService()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	transactions, err := svc.Refresh(ctx)
	if err != nil {
		root.Log.Fatalf("Error fetching transactions: %v", err)
	}

	criteria := filter.Criteria{
		Merchant: root.FilterMerchant,
		Country:  root.FilterCountry,
		Category: models.Category(root.FilterCategory),
		Tag:      root.FilterTag,
		Month:    root.FilterMonth,
		Year:     root.FilterYear,
	}
	switch root.FilterCashback {
	case "":
	case "eligible":
		criteria.Cashback = filter.CashbackEligibleOnly
	case "ineligible":
		criteria.Cashback = filter.CashbackIneligibleOnly
	default:
		root.Log.Fatalf("Invalid --cashback value %q (want 'eligible' or 'ineligible')", root.FilterCashback)
	}
	filtered := filter.Apply(transactions, criteria)

	output := root.SharedFlags.Output
	if output == "" {
		output = export.FileName(time.Now().UTC().Format("2006-01-02"))
	}
	if err := export.WriteFile(output, filtered, svc.Cards(), root.Delimiter()); err != nil {
		root.Log.Fatalf("Error writing CSV: %v", err)
	}
	root.Log.Infof("Exported %d of %d transactions to %s", len(filtered), len(transactions), output)
}
