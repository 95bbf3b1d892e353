package metrics

import (
	"context"
	"fmt"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
)

// Deriver turns stored prices and fundamentals into raw metrics, one
// instrument at a time. A failed instrument is logged and skipped; the
// rest of the universe still derives.
type Deriver struct {
	store  *store.Store
	logger *logger.Logger

	lookbackDays int
}

// NewDeriver creates a Deriver reading and writing through st.
func NewDeriver(st *store.Store, lookbackDays int, log *logger.Logger) *Deriver {
	return &Deriver{
		store:        st,
		logger:       log.WithField("module", "deriver"),
		lookbackDays: lookbackDays,
	}
}

// DeriveAll computes and persists metrics for every ticker, returning
// the count of instruments that produced at least one metric.
func (d *Deriver) DeriveAll(ctx context.Context, tickers []string) (int, error) {
	derived := 0
	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			return derived, ctx.Err()
		default:
		}

		if err := d.deriveOne(ctx, ticker); err != nil {
			d.logger.WithError(err).WithField("ticker", ticker).Warn("Metric derivation failed")
			continue
		}
		derived++
	}

	d.logger.WithFields(map[string]interface{}{
		"derived": derived,
		"total":   len(tickers),
	}).Info("Metric derivation completed")

	return derived, nil
}

// deriveOne derives one instrument behind a fault boundary: an
// unexpected panic counts as that instrument's failure alone.
func (d *Deriver) deriveOne(ctx context.Context, ticker string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic deriving %s: %v", ticker, r)
		}
	}()
	return d.DeriveInstrument(ctx, ticker)
}

// DeriveInstrument computes every raw metric for one ticker and saves
// them, including explicit nulls for metrics the data cannot support.
func (d *Deriver) DeriveInstrument(ctx context.Context, ticker string) error {
	bars, err := d.store.Prices.GetHistory(ctx, ticker, d.lookbackDays)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	quarterly, err := d.store.Fundamentals.GetStatements(ctx, ticker, contracts.PeriodQuarterly, stabilityWindow)
	if err != nil {
		return fmt.Errorf("load quarterly statements: %w", err)
	}
	annual, err := d.store.Fundamentals.GetStatements(ctx, ticker, contracts.PeriodAnnual, annualLimitStatements)
	if err != nil {
		return fmt.Errorf("load annual statements: %w", err)
	}

	eps := DeriveEPS(quarterly, annual)
	smr := DeriveSMR(quarterly, annual)

	var adGrade *string
	if grade := ADGrade(bars); grade != "" {
		adGrade = contracts.Str(string(grade))
	}

	raw := []contracts.RawMetric{
		{Ticker: ticker, Kind: contracts.MetricRSValue, Value: RSValue(bars)},
		{Ticker: ticker, Kind: contracts.MetricHighDistance52W, Value: HighDistance52W(bars)},
		{Ticker: ticker, Kind: contracts.MetricEPSGrowthLastQtr, Value: eps.LastQtrGrowth},
		{Ticker: ticker, Kind: contracts.MetricEPSGrowthPrevQtr, Value: eps.PrevQtrGrowth},
		{Ticker: ticker, Kind: contracts.MetricEPSAnnualGrowth, Value: eps.AnnualGrowth},
		{Ticker: ticker, Kind: contracts.MetricEPSStability, Value: eps.Stability},
		{Ticker: ticker, Kind: contracts.MetricSalesGrowth3Q, Value: smr.SalesGrowth3Q},
		{Ticker: ticker, Kind: contracts.MetricPretaxMargin, Value: smr.PretaxMargin},
		{Ticker: ticker, Kind: contracts.MetricAftertaxMargin, Value: smr.AftertaxMargin},
		{Ticker: ticker, Kind: contracts.MetricROE, Value: smr.ROE},
	}

	if err := d.store.Metrics.SaveMetrics(ctx, raw); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}
	if err := d.store.Metrics.SaveADGrade(ctx, ticker, adGrade); err != nil {
		return fmt.Errorf("save ad grade: %w", err)
	}

	return nil
}

const annualLimitStatements = 5
