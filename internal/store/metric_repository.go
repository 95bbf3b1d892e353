package store

import (
	"context"

	"github.com/wonny/ratings/internal/contracts"
)

// MetricRepository stores raw metrics and percentile ranks. Both are
// per-run snapshots: rows are overwritten, never versioned.
type MetricRepository struct {
	q Querier
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(q Querier) *MetricRepository {
	return &MetricRepository{q: q}
}

// SaveMetric upserts one raw metric value. A nil value is stored as NULL
// so the row records "computed, insufficient data".
func (r *MetricRepository) SaveMetric(ctx context.Context, m contracts.RawMetric) error {
	query := `
		INSERT INTO raw_metrics (ticker, kind, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, kind) DO UPDATE SET
			value = EXCLUDED.value
	`

	_, err := r.q.Exec(ctx, query, m.Ticker, string(m.Kind), m.Value)
	return err
}

// SaveMetrics upserts multiple raw metrics.
func (r *MetricRepository) SaveMetrics(ctx context.Context, metrics []contracts.RawMetric) error {
	for _, m := range metrics {
		if err := r.SaveMetric(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// GetValues returns {ticker: value} for one metric kind, restricted to
// instruments with a non-null value. This is exactly the ranking
// universe for that kind.
func (r *MetricRepository) GetValues(ctx context.Context, kind contracts.MetricKind) (map[string]float64, error) {
	query := `
		SELECT ticker, value
		FROM raw_metrics
		WHERE kind = $1 AND value IS NOT NULL
	`

	rows, err := r.q.Query(ctx, query, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var ticker string
		var value float64
		if err := rows.Scan(&ticker, &value); err != nil {
			return nil, err
		}
		values[ticker] = value
	}
	return values, rows.Err()
}

// GetValue returns one metric value for one ticker, nil when absent or NULL.
func (r *MetricRepository) GetValue(ctx context.Context, ticker string, kind contracts.MetricKind) (*float64, error) {
	query := `
		SELECT value FROM raw_metrics
		WHERE ticker = $1 AND kind = $2
	`

	rows, err := r.q.Query(ctx, query, ticker, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var value *float64
	if err := rows.Scan(&value); err != nil {
		return nil, err
	}
	return value, rows.Err()
}

// SaveADGrade upserts one instrument's accumulation/distribution grade.
// A nil grade records "computed, insufficient bars".
func (r *MetricRepository) SaveADGrade(ctx context.Context, ticker string, grade *string) error {
	query := `
		INSERT INTO ad_grades (ticker, grade)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO UPDATE SET
			grade = EXCLUDED.grade
	`

	_, err := r.q.Exec(ctx, query, ticker, grade)
	return err
}

// GetADGrades returns {ticker: grade} for every instrument with a
// non-null grade.
func (r *MetricRepository) GetADGrades(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT ticker, grade
		FROM ad_grades
		WHERE grade IS NOT NULL
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := make(map[string]string)
	for rows.Next() {
		var ticker, grade string
		if err := rows.Scan(&ticker, &grade); err != nil {
			return nil, err
		}
		grades[ticker] = grade
	}
	return grades, rows.Err()
}

// SaveRanks replaces the percentile ranks for one metric kind with the
// given {ticker: percentile} snapshot, atomically per kind.
func (r *MetricRepository) SaveRanks(ctx context.Context, kind contracts.MetricKind, ranks map[string]float64) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM percentile_ranks WHERE kind = $1`, string(kind)); err != nil {
		return err
	}

	query := `
		INSERT INTO percentile_ranks (ticker, kind, percentile)
		VALUES ($1, $2, $3)
	`
	for ticker, pct := range ranks {
		if _, err := tx.Exec(ctx, query, ticker, string(kind), pct); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
