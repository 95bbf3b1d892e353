package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ratings/internal/store"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Refresh the instrument universe",
	Long: `Fetches the stock listing from the data provider and upserts it
into the instruments table. Run this before the first collection and
whenever listings change.

Example:
  go run ./cmd/ratings universe
  go run ./cmd/ratings universe --exchanges NASDAQ,NYSE,AMEX`,
	RunE: runUniverse,
}

var universeExchanges []string

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().StringSliceVar(&universeExchanges, "exchanges", []string{"NASDAQ", "NYSE"}, "exchanges to include")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx, rt.db.Pool); err != nil {
		return err
	}

	count, err := rt.collector.RefreshUniverse(ctx, universeExchanges)
	if err != nil {
		return fmt.Errorf("refresh universe: %w", err)
	}

	fmt.Printf("Universe refreshed: %d instruments\n", count)
	return nil
}
