package store

import (
	"context"

	"github.com/wonny/ratings/internal/contracts"
)

// FundamentalRepository stores income/balance statement rows.
type FundamentalRepository struct {
	q Querier
}

// NewFundamentalRepository creates a new fundamental repository.
func NewFundamentalRepository(q Querier) *FundamentalRepository {
	return &FundamentalRepository{q: q}
}

// Save upserts a statement keyed by (ticker, report_date, period_kind).
func (r *FundamentalRepository) Save(ctx context.Context, st contracts.FundamentalStatement) error {
	query := `
		INSERT INTO fundamental_statements
			(ticker, report_date, period_kind, revenue, net_income, eps, stockholders_equity, total_equity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, report_date, period_kind) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			net_income = EXCLUDED.net_income,
			eps = EXCLUDED.eps,
			stockholders_equity = EXCLUDED.stockholders_equity,
			total_equity = EXCLUDED.total_equity
	`

	_, err := r.q.Exec(ctx, query,
		st.Ticker, st.Date, string(st.Period),
		st.Revenue, st.NetIncome, st.EPS, st.StockholdersEquity, st.TotalEquity,
	)
	return err
}

// SaveBatch upserts multiple statements.
func (r *FundamentalRepository) SaveBatch(ctx context.Context, stmts []contracts.FundamentalStatement) error {
	for _, st := range stmts {
		if err := r.Save(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// GetStatements returns up to limit statements of the given period kind,
// most recent first. Metric derivation relies on this ordering.
func (r *FundamentalRepository) GetStatements(ctx context.Context, ticker string, period contracts.PeriodKind, limit int) ([]contracts.FundamentalStatement, error) {
	query := `
		SELECT ticker, report_date, period_kind, revenue, net_income, eps, stockholders_equity, total_equity
		FROM fundamental_statements
		WHERE ticker = $1 AND period_kind = $2
		ORDER BY report_date DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, ticker, string(period), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []contracts.FundamentalStatement
	for rows.Next() {
		var st contracts.FundamentalStatement
		var period string
		if err := rows.Scan(
			&st.Ticker, &st.Date, &period,
			&st.Revenue, &st.NetIncome, &st.EPS, &st.StockholdersEquity, &st.TotalEquity,
		); err != nil {
			return nil, err
		}
		st.Period = contracts.PeriodKind(period)
		stmts = append(stmts, st)
	}
	return stmts, rows.Err()
}
