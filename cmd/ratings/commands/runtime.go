package commands

import (
	"fmt"

	"github.com/wonny/ratings/internal/collector"
	"github.com/wonny/ratings/internal/fmp"
	"github.com/wonny/ratings/internal/metrics"
	"github.com/wonny/ratings/internal/rating"
	"github.com/wonny/ratings/internal/screener"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/config"
	"github.com/wonny/ratings/pkg/database"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/ratelimit"
)

// runtime bundles the wiring every pipeline command shares.
type runtime struct {
	cfg       *config.Config
	logger    *logger.Logger
	db        *database.DB
	store     *store.Store
	provider  *fmp.Client
	collector *collector.Collector
	deriver   *metrics.Deriver
	builder   *rating.Builder
	engine    *screener.Engine
}

// newRuntime loads config, connects to the database, and wires the
// pipeline components. Callers must Close.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	st := store.New(db.Pool)

	limiter := ratelimit.NewPerMinute(cfg.FMP.CallsPerMinute)
	provider := fmp.New(cfg, log, limiter)

	return &runtime{
		cfg:       cfg,
		logger:    log,
		db:        db,
		store:     st,
		provider:  provider,
		collector: collector.New(provider, db.Pool, cfg.Collector, log),
		deriver:   metrics.NewDeriver(st, cfg.Collector.LookbackDays, log),
		builder:   rating.NewBuilder(st, log),
		engine: screener.NewEngine(
			st, cfg.BenchmarkTicker, cfg.Collector.LookbackDays, cfg.Collector.Workers, log,
		),
	}, nil
}

// Close releases the runtime's connections.
func (rt *runtime) Close() {
	rt.db.Close()
}
