package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/ranking"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
)

// EPS rating weights: the latest quarter dominates.
var epsComponents = []struct {
	kind   contracts.MetricKind
	weight float64
}{
	{contracts.MetricEPSGrowthLastQtr, 0.50},
	{contracts.MetricEPSGrowthPrevQtr, 0.20},
	{contracts.MetricEPSAnnualGrowth, 0.20},
	{contracts.MetricEPSStability, 0.10},
}

// SMR rating weights: sales growth leads.
var smrComponents = []struct {
	kind   contracts.MetricKind
	weight float64
}{
	{contracts.MetricSalesGrowth3Q, 0.40},
	{contracts.MetricPretaxMargin, 0.20},
	{contracts.MetricAftertaxMargin, 0.20},
	{contracts.MetricROE, 0.20},
}

// Builder runs the full rating pass: cross-sectional percentile ranking
// of every raw metric, the component rating blends, industry grouping,
// and the composite. All reads and writes go through the store; the
// pass is a pure function of the current raw metric snapshot.
type Builder struct {
	store  *store.Store
	logger *logger.Logger
}

// NewBuilder creates a rating Builder.
func NewBuilder(st *store.Store, log *logger.Logger) *Builder {
	return &Builder{
		store:  st,
		logger: log.WithField("module", "rating"),
	}
}

// BuildAll recomputes and persists every rating. Returns the number of
// instruments that received a rating row.
func (b *Builder) BuildAll(ctx context.Context) (int, error) {
	// 1. Percentile-rank every metric kind across the universe.
	rsRanks, err := b.rankMetric(ctx, contracts.MetricRSValue)
	if err != nil {
		return 0, err
	}

	epsRanks := make([]Component, 0, len(epsComponents))
	for _, c := range epsComponents {
		ranks, err := b.rankMetric(ctx, c.kind)
		if err != nil {
			return 0, err
		}
		epsRanks = append(epsRanks, Component{Ranks: ranks, Weight: c.weight})
	}

	smrRanks := make([]Component, 0, len(smrComponents))
	for _, c := range smrComponents {
		ranks, err := b.rankMetric(ctx, c.kind)
		if err != nil {
			return 0, err
		}
		smrRanks = append(smrRanks, Component{Ranks: ranks, Weight: c.weight})
	}

	// 2. Blend component percentiles into the EPS and SMR ratings.
	epsRatings := Combine(epsRanks)
	smrScores := Combine(smrRanks)

	// 3. Industry group RS from raw RS values and profiles.
	profiles, err := b.store.Instruments.GetAllProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("load profiles: %w", err)
	}
	rsValues, err := b.store.Metrics.GetValues(ctx, contracts.MetricRSValue)
	if err != nil {
		return 0, fmt.Errorf("load rs values: %w", err)
	}
	industryRS := IndustryGroupRS(profiles, rsValues)

	// 4. Remaining per-instrument inputs.
	adGrades, err := b.store.Metrics.GetADGrades(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ad grades: %w", err)
	}
	highDistances, err := b.store.Metrics.GetValues(ctx, contracts.MetricHighDistance52W)
	if err != nil {
		return 0, fmt.Errorf("load high distances: %w", err)
	}

	// 5. Assemble and persist one record per instrument seen anywhere.
	universe := make(map[string]struct{})
	for t := range rsRanks {
		universe[t] = struct{}{}
	}
	for t := range epsRatings {
		universe[t] = struct{}{}
	}
	for t := range smrScores {
		universe[t] = struct{}{}
	}
	for t := range adGrades {
		universe[t] = struct{}{}
	}

	now := time.Now().UTC()
	saved := 0
	for ticker := range universe {
		record := contracts.RatingRecord{Ticker: ticker, UpdatedAt: now}

		if pct, ok := rsRanks[ticker]; ok {
			record.RSRating = contracts.Float(pct)
		}
		if score, ok := epsRatings[ticker]; ok {
			record.EPSRating = contracts.Float(score)
		}
		if score, ok := smrScores[ticker]; ok {
			record.SMRRating = contracts.Str(QuintileGrade(score))
		}
		if grade, ok := adGrades[ticker]; ok {
			record.ADRating = contracts.Str(grade)
		}
		if pct, ok := industryRS[ticker]; ok {
			record.IndustryGroupRS = contracts.Float(pct)
		}
		if dist, ok := highDistances[ticker]; ok {
			record.PriceVs52WHigh = contracts.Float(dist)
		}

		record.CompRating = Composite(
			record.RSRating, record.EPSRating,
			record.ADRating, record.SMRRating,
			record.IndustryGroupRS, record.PriceVs52WHigh,
		)

		if err := b.store.Ratings.Save(ctx, record); err != nil {
			return saved, fmt.Errorf("save rating for %s: %w", ticker, err)
		}
		saved++
	}

	b.logger.WithField("count", saved).Info("Rating pass completed")
	return saved, nil
}

// rankMetric percentile-ranks one metric kind across all instruments
// with a value, persisting and returning the snapshot.
func (b *Builder) rankMetric(ctx context.Context, kind contracts.MetricKind) (map[string]float64, error) {
	values, err := b.store.Metrics.GetValues(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s values: %w", kind, err)
	}

	ptrs := make(map[string]*float64, len(values))
	for ticker, v := range values {
		ptrs[ticker] = contracts.Float(v)
	}
	ranks := ranking.Rank(ptrs)

	if err := b.store.Metrics.SaveRanks(ctx, kind, ranks); err != nil {
		return nil, fmt.Errorf("save %s ranks: %w", kind, err)
	}
	return ranks, nil
}
