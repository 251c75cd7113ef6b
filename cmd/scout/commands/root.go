package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "StockScout - equity discovery pipeline",
	Long: `StockScout Unified CLI

Scans US and European index constituents, screens fundamentals, scores
the survivors and enriches the top candidates with technical analysis.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout scan
  go run ./cmd/scout price AAPL
  go run ./cmd/scout universe europe
  go run ./cmd/scout api
  go run ./cmd/scout scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
