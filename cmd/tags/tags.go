// Package tags handles the tag CSV import and tag maintenance commands
package tags

import (
	"context"
	"os"
	"time"

	"cardlens/cmd/root"
	"cardlens/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var csvFile string

// Cmd represents the tags command
var Cmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage transaction tags",
	Long:  `Load tags from a CSV file onto the reconciled transactions, or clear them.`,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load tags from a CSV file",
	Long: `Match the rows of a tag CSV against the reconciled transactions by hash,
date, merchant and amount, apply the tag columns and persist the result.`,
	Run: loadFunc,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved tags",
	Run:   clearFunc,
}

func init() {
	loadCmd.Flags().StringVarP(&csvFile, "file", "f", "", "Tag CSV file to load")
	if err := loadCmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
	Cmd.AddCommand(loadCmd)
	Cmd.AddCommand(clearCmd)
}

func loadFunc(cmd *cobra.Command, args []string) {
	svc := root.NewService()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := svc.Refresh(ctx); err != nil {
		root.Log.Fatalf("Error fetching transactions: %v", err)
	}

	f, err := os.Open(csvFile)
	if err != nil {
		root.Log.Fatalf("Error opening CSV file: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close file")
		}
	}()

	result, err := svc.ImportTagsCSV(f)
	if err != nil {
		root.Log.Fatalf("Error loading tags: %v", err)
	}
	root.Log.WithFields(logrus.Fields{
		"rows":    result.Rows,
		"matched": result.Matched,
		"skipped": result.Skipped,
		"applied": result.Applied,
	}).Info("Tag load completed")
}

func clearFunc(cmd *cobra.Command, args []string) {
	tagStore := store.NewTagStore(root.DataDir())
	if err := tagStore.Clear(); err != nil {
		root.Log.Fatalf("Error clearing tags: %v", err)
	}
	root.Log.Info("All saved tags removed")
}
