package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/config"
	"github.com/wonny/ratings/pkg/logger"
)

// Acceptance thresholds for one instrument. Below either, the instrument
// is marked failed and its remaining fetch steps are skipped.
const (
	minDailyBars  = 252
	minQuarters   = 5
	benchmarkBars = 30

	quarterlyLimit = 8
	annualLimit    = 5
)

// Provider is the upstream data source the collector consumes.
// Any error from it is treated as "no data", never as a fatal failure.
type Provider interface {
	ListStocks(ctx context.Context, exchanges []string) ([]contracts.Instrument, error)
	GetPriceHistory(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error)
	GetIncomeStatements(ctx context.Context, ticker string, period contracts.PeriodKind, limit int) ([]contracts.FundamentalStatement, error)
	GetBalanceSheets(ctx context.Context, ticker string, limit int) ([]contracts.FundamentalStatement, error)
	GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error)
}

// Collector populates price history and fundamentals for a universe via
// a bounded worker pool. Each batch runs on one worker with its own
// store connection; per-instrument failures never abort the run.
type Collector struct {
	provider Provider
	pool     *pgxpool.Pool
	cfg      config.CollectorConfig
	logger   *logger.Logger

	// batchStore yields the store one batch works through plus its
	// release func. Defaults to a dedicated pool connection; tests
	// swap in a fake.
	batchStore func(ctx context.Context) (*store.Store, func(), error)
}

// New creates a new Collector.
func New(provider Provider, pool *pgxpool.Pool, cfg config.CollectorConfig, log *logger.Logger) *Collector {
	c := &Collector{
		provider: provider,
		pool:     pool,
		cfg:      cfg,
		logger:   log.WithField("module", "collector"),
	}
	c.batchStore = c.acquireConn
	return c
}

// acquireConn binds a store to one dedicated pool connection.
func (c *Collector) acquireConn(ctx context.Context) (*store.Store, func(), error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store.New(conn), conn.Release, nil
}

// Result is the outcome of collecting one instrument.
type Result struct {
	Ticker     string
	BarCount   int
	StmtCount  int
	HasProfile bool
	Err        error
}

// RefreshUniverse fetches the instrument listing and upserts it.
func (c *Collector) RefreshUniverse(ctx context.Context, exchanges []string) (int, error) {
	instruments, err := c.provider.ListStocks(ctx, exchanges)
	if err != nil {
		return 0, fmt.Errorf("refresh universe: %w", err)
	}

	st := store.New(c.pool)
	if err := st.Instruments.SaveBatch(ctx, instruments); err != nil {
		return 0, fmt.Errorf("save universe: %w", err)
	}

	c.logger.WithField("count", len(instruments)).Info("Universe refreshed")
	return len(instruments), nil
}

// Collect fetches and persists data for every ticker, returning the
// manifest of accepted and rejected instruments.
func (c *Collector) Collect(ctx context.Context, tickers []string) (contracts.Manifest, error) {
	batches := splitBatches(tickers, c.cfg.BatchSize)

	c.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"batches": len(batches),
		"workers": c.cfg.Workers,
	}).Info("Starting collection")

	batchCh := make(chan []string, len(batches))
	resultCh := make(chan Result, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.batchWorker(ctx, workerID, batchCh, resultCh)
		}(i)
	}

	for _, batch := range batches {
		batchCh <- batch
	}
	close(batchCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var manifest contracts.Manifest
	for result := range resultCh {
		if result.Err != nil {
			manifest.Failed = append(manifest.Failed, result.Ticker)
		} else {
			manifest.Succeeded = append(manifest.Succeeded, result.Ticker)
		}
	}
	sort.Strings(manifest.Succeeded)
	sort.Strings(manifest.Failed)

	c.logger.WithFields(map[string]interface{}{
		"success": len(manifest.Succeeded),
		"failed":  len(manifest.Failed),
	}).Info("Collection completed")

	return manifest, nil
}

// batchWorker processes batches, each with a dedicated store connection.
func (c *Collector) batchWorker(ctx context.Context, workerID int, batchCh <-chan []string, resultCh chan<- Result) {
	for batch := range batchCh {
		st, release, err := c.batchStore(ctx)
		if err != nil {
			// No connection: the whole batch fails, siblings continue.
			for _, ticker := range batch {
				resultCh <- Result{Ticker: ticker, Err: fmt.Errorf("acquire connection: %w", err)}
			}
			continue
		}

		for _, ticker := range batch {
			select {
			case <-ctx.Done():
				resultCh <- Result{Ticker: ticker, Err: ctx.Err()}
				continue
			default:
			}

			result := c.collectInstrument(ctx, st, ticker)
			if result.Err != nil {
				c.logger.WithError(result.Err).WithFields(map[string]interface{}{
					"worker": workerID,
					"ticker": ticker,
				}).Debug("Instrument rejected")
			}
			resultCh <- result
		}

		release()
	}
}

// collectInstrument fetches all data for one ticker. Unexpected faults
// are caught here so they count as a single-instrument failure.
func (c *Collector) collectInstrument(ctx context.Context, st *store.Store, ticker string) (result Result) {
	result.Ticker = ticker

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic collecting %s: %v", ticker, r)
		}
	}()

	// 1. Price history: hard threshold.
	bars, err := c.provider.GetPriceHistory(ctx, ticker, c.cfg.LookbackDays)
	if err != nil {
		result.Err = fmt.Errorf("fetch prices: %w", err)
		return result
	}
	if len(bars) < minDailyBars {
		result.Err = fmt.Errorf("insufficient bars: %d < %d", len(bars), minDailyBars)
		return result
	}
	if err := st.Prices.SaveBatch(ctx, bars); err != nil {
		result.Err = fmt.Errorf("save prices: %w", err)
		return result
	}
	result.BarCount = len(bars)

	// 2. Quarterly income statements: hard threshold.
	quarterly, err := c.provider.GetIncomeStatements(ctx, ticker, contracts.PeriodQuarterly, quarterlyLimit)
	if err != nil {
		result.Err = fmt.Errorf("fetch quarterly statements: %w", err)
		return result
	}
	if len(quarterly) < minQuarters {
		result.Err = fmt.Errorf("insufficient quarters: %d < %d", len(quarterly), minQuarters)
		return result
	}
	if err := st.Fundamentals.SaveBatch(ctx, quarterly); err != nil {
		result.Err = fmt.Errorf("save quarterly statements: %w", err)
		return result
	}
	result.StmtCount = len(quarterly)

	// 3. Annual statements, balance sheet, profile: best-effort.
	if annual, err := c.provider.GetIncomeStatements(ctx, ticker, contracts.PeriodAnnual, annualLimit); err == nil && len(annual) > 0 {
		if err := st.Fundamentals.SaveBatch(ctx, annual); err != nil {
			result.Err = fmt.Errorf("save annual statements: %w", err)
			return result
		}
	}

	if sheets, err := c.provider.GetBalanceSheets(ctx, ticker, annualLimit); err == nil && len(sheets) > 0 {
		if err := saveEquity(ctx, st, sheets); err != nil {
			result.Err = fmt.Errorf("save balance sheets: %w", err)
			return result
		}
	}

	if profile, err := c.provider.GetProfile(ctx, ticker); err == nil && profile != nil {
		if err := st.Instruments.SaveProfile(ctx, *profile); err != nil {
			result.Err = fmt.Errorf("save profile: %w", err)
			return result
		}
		result.HasProfile = true
	}

	return result
}

// saveEquity merges balance-sheet equity fields into the stored annual
// statements so ROE derivation reads one row per period.
func saveEquity(ctx context.Context, st *store.Store, sheets []contracts.FundamentalStatement) error {
	for _, sheet := range sheets {
		existing, err := st.Fundamentals.GetStatements(ctx, sheet.Ticker, contracts.PeriodAnnual, annualLimit)
		if err != nil {
			return err
		}

		merged := sheet
		for _, stmt := range existing {
			if stmt.Date.Equal(sheet.Date) {
				merged.Revenue = stmt.Revenue
				merged.NetIncome = stmt.NetIncome
				merged.EPS = stmt.EPS
				break
			}
		}

		if err := st.Fundamentals.Save(ctx, merged); err != nil {
			return err
		}
	}
	return nil
}

// CollectBenchmarks fetches price-only data for benchmark tickers with a
// relaxed bar floor. Benchmarks never enter the rating universe; they
// exist for the screeners' relative-strength series.
func (c *Collector) CollectBenchmarks(ctx context.Context, tickers []string) int {
	st := store.New(c.pool)
	success := 0

	for _, ticker := range tickers {
		bars, err := c.provider.GetPriceHistory(ctx, ticker, c.cfg.LookbackDays)
		if err != nil || len(bars) < benchmarkBars {
			c.logger.WithField("ticker", ticker).Warn("Benchmark fetch failed")
			continue
		}
		if err := st.Prices.SaveBatch(ctx, bars); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Benchmark save failed")
			continue
		}
		success++
	}

	c.logger.WithFields(map[string]interface{}{
		"success": success,
		"total":   len(tickers),
	}).Info("Benchmark collection completed")

	return success
}

// splitBatches splits tickers into fixed-size batches.
func splitBatches(tickers []string, size int) [][]string {
	if size <= 0 {
		size = 50
	}

	var batches [][]string
	for i := 0; i < len(tickers); i += size {
		end := i + size
		if end > len(tickers) {
			end = len(tickers)
		}
		batches = append(batches, tickers[i:end])
	}
	return batches
}
