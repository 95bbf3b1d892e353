package store

import (
	"context"
	"time"
)

// ScreenRepository stores the latest screen run's results. Each run
// replaces a screen's rows wholesale.
type ScreenRepository struct {
	q Querier
}

// NewScreenRepository creates a new screen result repository.
func NewScreenRepository(q Querier) *ScreenRepository {
	return &ScreenRepository{q: q}
}

// SaveResults replaces one screen's result set in a single transaction
// so readers never see a mix of two runs.
func (r *ScreenRepository) SaveResults(ctx context.Context, screen string, tickers []string) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM screen_results WHERE screen = $1`, screen); err != nil {
		return err
	}

	query := `
		INSERT INTO screen_results (screen, ticker, run_at)
		VALUES ($1, $2, $3)
	`
	now := time.Now().UTC()
	for _, ticker := range tickers {
		if _, err := tx.Exec(ctx, query, screen, ticker, now); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetResults returns one screen's tickers in stored order.
func (r *ScreenRepository) GetResults(ctx context.Context, screen string) ([]string, error) {
	query := `
		SELECT ticker FROM screen_results
		WHERE screen = $1
		ORDER BY ticker
	`

	rows, err := r.q.Query(ctx, query, screen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

// GetAllResults returns every screen's tickers keyed by screen name.
func (r *ScreenRepository) GetAllResults(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT screen, ticker FROM screen_results
		ORDER BY screen, ticker
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string][]string)
	for rows.Next() {
		var screen, ticker string
		if err := rows.Scan(&screen, &ticker); err != nil {
			return nil, err
		}
		results[screen] = append(results[screen], ticker)
	}
	return results, rows.Err()
}
