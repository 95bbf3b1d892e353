package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ratings/internal/store"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [tickers...]",
	Short: "Collect prices and fundamentals",
	Long: `Fetches daily price history and fundamental statements for the
universe (or the given tickers) through the rate-limited provider
client, and collects the benchmark's price history.

Instruments with under a year of bars or under five quarterly
statements are rejected and reported in the manifest.

Example:
  go run ./cmd/ratings collect
  go run ./cmd/ratings collect AAPL MSFT NVDA`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx, rt.db.Pool); err != nil {
		return err
	}

	tickers := args
	if len(tickers) == 0 {
		tickers, err = rt.store.Instruments.ListTickers(ctx)
		if err != nil {
			return fmt.Errorf("list universe: %w", err)
		}
		if len(tickers) == 0 {
			return fmt.Errorf("universe is empty; run `ratings universe` first")
		}
	}

	manifest, err := rt.collector.Collect(ctx, tickers)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	benchmarks := rt.collector.CollectBenchmarks(ctx, []string{rt.cfg.BenchmarkTicker})

	fmt.Printf("Collection finished: %d succeeded, %d failed, %d benchmark(s)\n",
		len(manifest.Succeeded), len(manifest.Failed), benchmarks)
	if len(manifest.Failed) > 0 && verbose {
		fmt.Printf("Failed: %v\n", manifest.Failed)
	}
	return nil
}
