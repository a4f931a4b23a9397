// Package root contains the root command for the application
package root

import (
	"os"

	"cardlens/internal/config"
	"cardlens/internal/export"
	"cardlens/internal/gnosis"
	"cardlens/internal/pipeline"
	"cardlens/internal/rates"
	"cardlens/internal/scrape"
	"cardlens/internal/store"
	"cardlens/internal/tagcsv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Capture string // path to a scraped-transactions capture file
	Output  string
	Token   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "cardlens",
		Short: "A CLI tool to reconcile, tag and analyze Gnosis Pay card transactions.",
		Long: `cardlens reconciles card transactions from the Gnosis Pay API with rows
captured from the dashboard, classifies them by merchant category, matches
user tags from CSV files and reports weekly cashback.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to cardlens!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger everywhere
			gnosis.SetLogger(Log)
			scrape.SetLogger(Log)
			tagcsv.SetLogger(Log)
			rates.SetLogger(Log)
			store.SetLogger(Log)
			export.SetLogger(Log)
			pipeline.SetLogger(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific cashback command flags
	Week      string
	StakedGNO float64
	HasOGNFT  bool

	// Specific filter flags for the export command
	FilterMerchant string
	FilterMonth    int
	FilterYear     int
	FilterCountry  string
	FilterCategory string
	FilterTag      string
	FilterCashback string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Capture, "capture", "c", "", "Scraped transaction capture file (JSON)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Token, "token", "t", "", "API bearer token (overrides GNOSISPAY_TOKEN)")
}

// NewService builds the transaction service from the shared flags and
// configuration.
func NewService() *pipeline.Service {
	token := SharedFlags.Token
	if token == "" && Cfg != nil {
		token = Cfg.API.Token
	}
	baseURL := ""
	if Cfg != nil {
		baseURL = Cfg.API.BaseURL
	}
	api := gnosis.NewClient(baseURL, gnosis.StaticToken(token), nil)

	var scraper scrape.Scraper
	if SharedFlags.Capture != "" {
		scraper = scrape.NewFixtureScraper(SharedFlags.Capture)
	}

	return pipeline.NewService(api, scraper, store.NewTagStore(DataDir()))
}

// DataDir resolves the directory holding persisted state, creating nothing.
func DataDir() string {
	if Cfg != nil && Cfg.Data.Directory != "" {
		return Cfg.Data.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home + string(os.PathSeparator) + ".cardlens"
}

// Delimiter returns the configured CSV delimiter.
func Delimiter() rune {
	if Cfg != nil && Cfg.CSV.Delimiter != "" {
		return []rune(Cfg.CSV.Delimiter)[0]
	}
	return ','
}
