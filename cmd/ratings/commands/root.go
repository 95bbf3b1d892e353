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
	Use:   "ratings",
	Short: "Equity relative-strength and earnings ratings engine",
	Long: `Ratings pipeline CLI

Collects price history and fundamentals for a stock universe, derives
per-instrument metrics, percentile-ranks the universe, publishes the
composite ratings, and runs the daily screens.

Usage:
  go run ./cmd/ratings [command]

Examples:
  go run ./cmd/ratings universe
  go run ./cmd/ratings collect
  go run ./cmd/ratings rate
  go run ./cmd/ratings screen
  go run ./cmd/ratings run
  go run ./cmd/ratings api
  go run ./cmd/ratings scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
