package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run all screens over the rated universe",
	Long: `Evaluates every screen against the latest ratings and price data
and stores the result lists.

Example:
  go run ./cmd/ratings screen`,
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.engine.RunAll(context.Background())
	if err != nil {
		return fmt.Errorf("run screens: %w", err)
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-24s %d passed\n", name, len(results[name]))
		if verbose {
			for _, ticker := range results[name] {
				fmt.Printf("  %s\n", ticker)
			}
		}
	}
	return nil
}
