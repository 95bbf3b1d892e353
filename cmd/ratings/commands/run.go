package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ratings/internal/scheduler/jobs"
	"github.com/wonny/ratings/internal/store"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long: `Runs collect, rate, and screen back to back, the same pass the
scheduler performs daily.

Example:
  go run ./cmd/ratings run`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx, rt.db.Pool); err != nil {
		return err
	}

	job := jobs.NewPipelineJob(
		rt.collector, rt.deriver, rt.builder, rt.engine,
		rt.store, rt.cfg.BenchmarkTicker, "", rt.logger,
	)

	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	fmt.Println("Pipeline run completed")
	return nil
}
