package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/ratings/internal/collector"
	"github.com/wonny/ratings/internal/metrics"
	"github.com/wonny/ratings/internal/rating"
	"github.com/wonny/ratings/internal/screener"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
)

// PipelineJob runs the full daily pass: collect, derive, rate, screen.
// Each stage consumes only what the previous stage persisted, so a
// partially failed collection still rates whatever data landed.
type PipelineJob struct {
	collector *collector.Collector
	deriver   *metrics.Deriver
	builder   *rating.Builder
	engine    *screener.Engine
	store     *store.Store
	benchmark string
	logger    *logger.Logger
	schedule  string
}

// NewPipelineJob creates the daily pipeline job.
func NewPipelineJob(
	col *collector.Collector,
	deriver *metrics.Deriver,
	builder *rating.Builder,
	engine *screener.Engine,
	st *store.Store,
	benchmark string,
	schedule string,
	log *logger.Logger,
) *PipelineJob {
	return &PipelineJob{
		collector: col,
		deriver:   deriver,
		builder:   builder,
		engine:    engine,
		store:     st,
		benchmark: benchmark,
		schedule:  schedule,
		logger:    log.WithField("job", "pipeline"),
	}
}

// Name returns the job name.
func (j *PipelineJob) Name() string { return "daily_pipeline" }

// Schedule returns the cron expression.
func (j *PipelineJob) Schedule() string { return j.schedule }

// Run executes collect, derive, rate, and screen in order.
func (j *PipelineJob) Run(ctx context.Context) error {
	tickers, err := j.store.Instruments.ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("list universe: %w", err)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("universe is empty; run universe refresh first")
	}

	manifest, err := j.collector.Collect(ctx, tickers)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	j.collector.CollectBenchmarks(ctx, []string{j.benchmark})

	derived, err := j.deriver.DeriveAll(ctx, manifest.Succeeded)
	if err != nil {
		return fmt.Errorf("derive metrics: %w", err)
	}

	rated, err := j.builder.BuildAll(ctx)
	if err != nil {
		return fmt.Errorf("build ratings: %w", err)
	}

	results, err := j.engine.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("run screens: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"collected": len(manifest.Succeeded),
		"failed":    len(manifest.Failed),
		"derived":   derived,
		"rated":     rated,
		"screens":   len(results),
	}).Info("Pipeline run completed")

	return nil
}
