package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/ratings/internal/scheduler"
	"github.com/wonny/ratings/internal/scheduler/jobs"
	"github.com/wonny/ratings/internal/store"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the pipeline on a daily schedule",
	Long: `Starts the scheduler with the daily pipeline job: collect, derive
metrics, build ratings, run screens.

The default schedule fires at 17:30 on weekdays, after the market
close. Cron expressions include a seconds field.

Example:
  go run ./cmd/ratings scheduler
  go run ./cmd/ratings scheduler --schedule "0 0 18 * * 1-5"`,
	RunE: runScheduler,
}

var pipelineSchedule string

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&pipelineSchedule, "schedule", "0 30 17 * * 1-5", "cron schedule for the daily pipeline")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := store.EnsureSchema(context.Background(), rt.db.Pool); err != nil {
		return err
	}

	job := jobs.NewPipelineJob(
		rt.collector, rt.deriver, rt.builder, rt.engine,
		rt.store, rt.cfg.BenchmarkTicker, pipelineSchedule, rt.logger,
	)

	sched := scheduler.New(rt.logger)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add pipeline job: %w", err)
	}

	sched.Start()
	fmt.Printf("Scheduler running (pipeline at %q)\n", pipelineSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
