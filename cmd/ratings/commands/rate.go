package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Derive metrics and build ratings",
	Long: `Derives per-instrument metrics from the stored prices and
fundamentals, percentile-ranks every metric across the universe, and
publishes the RS, EPS, SMR, A/D, industry group, and composite ratings.

Example:
  go run ./cmd/ratings rate`,
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()

	tickers, err := rt.store.Instruments.ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("list universe: %w", err)
	}

	derived, err := rt.deriver.DeriveAll(ctx, tickers)
	if err != nil {
		return fmt.Errorf("derive metrics: %w", err)
	}

	rated, err := rt.builder.BuildAll(ctx)
	if err != nil {
		return fmt.Errorf("build ratings: %w", err)
	}

	fmt.Printf("Ratings built: %d instruments derived, %d rated\n", derived, rated)
	return nil
}
