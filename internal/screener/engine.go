package screener

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
)

// Engine runs every screen over the rated universe. Snapshots load
// concurrently; rule evaluation is pure and runs in one pass.
type Engine struct {
	store     *store.Store
	logger    *logger.Logger
	benchmark string
	lookback  int
	workers   int
}

// NewEngine creates a screen Engine. benchmark is the ticker the
// short-term strength series is measured against.
func NewEngine(st *store.Store, benchmark string, lookbackDays, workers int, log *logger.Logger) *Engine {
	if workers <= 0 {
		workers = 3
	}
	return &Engine{
		store:     st,
		logger:    log.WithField("module", "screener"),
		benchmark: benchmark,
		lookback:  lookbackDays,
		workers:   workers,
	}
}

// RunAll evaluates every screen and persists each result set. Returns
// {screen: tickers} with tickers sorted.
func (e *Engine) RunAll(ctx context.Context) (map[string][]string, error) {
	benchmark, err := e.store.Prices.GetHistory(ctx, e.benchmark, e.lookback)
	if err != nil {
		return nil, fmt.Errorf("load benchmark %s: %w", e.benchmark, err)
	}
	if len(benchmark) < rsSTSWindow {
		e.logger.WithField("benchmark", e.benchmark).Warn("Benchmark history too short for short-term strength")
	}

	tickers, err := e.store.Instruments.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	snapshots := e.loadSnapshots(ctx, tickers, benchmark)
	e.logger.WithFields(map[string]interface{}{
		"universe":  len(tickers),
		"snapshots": len(snapshots),
	}).Info("Snapshots loaded")

	results := make(map[string][]string)
	results[ScreenMomentum97] = Momentum97(snapshots)

	for _, rule := range Rules() {
		var passed []string
		for ticker, s := range snapshots {
			if rule.Match(s) {
				passed = append(passed, ticker)
			}
		}
		sort.Strings(passed)
		results[rule.Name] = passed
	}

	for screen, passed := range results {
		if err := e.store.Screens.SaveResults(ctx, screen, passed); err != nil {
			return nil, fmt.Errorf("save %s results: %w", screen, err)
		}
		e.logger.WithFields(map[string]interface{}{
			"screen": screen,
			"passed": len(passed),
		}).Info("Screen completed")
	}

	return results, nil
}

// loadSnapshots fetches snapshots with a bounded worker pool. A failed
// snapshot is logged and dropped; screens run over what loaded.
func (e *Engine) loadSnapshots(ctx context.Context, tickers []string, benchmark []contracts.PriceBar) map[string]*Snapshot {
	tickerCh := make(chan string, len(tickers))
	for _, ticker := range tickers {
		// The benchmark never screens itself.
		if ticker == e.benchmark {
			continue
		}
		tickerCh <- ticker
	}
	close(tickerCh)

	var mu sync.Mutex
	snapshots := make(map[string]*Snapshot, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range tickerCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				s, err := LoadSnapshot(ctx, e.store, ticker, e.lookback, benchmark)
				if err != nil {
					e.logger.WithError(err).WithField("ticker", ticker).Warn("Snapshot load failed")
					continue
				}
				mu.Lock()
				snapshots[ticker] = s
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return snapshots
}
