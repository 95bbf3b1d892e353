package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline data status",
	Long: `Prints a summary of the stored data: universe size, latest
benchmark bar, rating coverage, and screen result counts.

Example:
  go run ./cmd/ratings status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Universe:   %d instruments\n", len(tickers))

	latest, err := rt.store.Prices.LatestDate(ctx, rt.cfg.BenchmarkTicker)
	if err != nil {
		return fmt.Errorf("latest benchmark date: %w", err)
	}
	if latest == nil {
		fmt.Printf("Benchmark:  %s (no data)\n", rt.cfg.BenchmarkTicker)
	} else {
		bars, err := rt.store.Prices.CountBars(ctx, rt.cfg.BenchmarkTicker)
		if err != nil {
			return fmt.Errorf("count benchmark bars: %w", err)
		}
		fmt.Printf("Benchmark:  %s through %s (%d bars)\n", rt.cfg.BenchmarkTicker, latest.Format("2006-01-02"), bars)
	}

	ratings, err := rt.store.Ratings.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	withComposite := 0
	for _, r := range ratings {
		if r.CompRating != nil {
			withComposite++
		}
	}
	fmt.Printf("Ratings:    %d rated, %d with composite\n", len(ratings), withComposite)

	screens, err := rt.store.Screens.GetAllResults(ctx)
	if err != nil {
		return fmt.Errorf("load screen results: %w", err)
	}
	fmt.Printf("Screens:    %d with results\n", len(screens))
	for name, passed := range screens {
		fmt.Printf("  %-24s %d\n", name, len(passed))
	}

	return nil
}
