// Package classify handles the MCC classification command
package classify

import (
	"fmt"

	"cardlens/internal/category"
	"cardlens/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify <mcc>",
	Short: "Classify a merchant category code",
	Long:  `Print the merchant category a 4-digit MCC maps to and whether it earns cashback.`,
	Args:  cobra.ExactArgs(1),
	Run:   classifyFunc,
}

func classifyFunc(cmd *cobra.Command, args []string) {
	mcc := args[0]
	cat := category.Classify(mcc)

	fmt.Printf("MCC %s: %s\n", mcc, cat)
	if category.NoCashbackMCC(mcc) {
		fmt.Println("Cashback: excluded")
	} else if cat == models.CategoryOther && mcc != "0000" {
		fmt.Println("Cashback: eligible (unrecognized code)")
	} else {
		fmt.Println("Cashback: eligible")
	}
}
