package store

import (
	"context"
	"time"

	"github.com/wonny/ratings/internal/contracts"
)

// PriceRepository stores daily price bars. Bars are append/upsert only.
type PriceRepository struct {
	q Querier
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(q Querier) *PriceRepository {
	return &PriceRepository{q: q}
}

// Save upserts a single bar keyed by (ticker, trade_date).
func (r *PriceRepository) Save(ctx context.Context, bar contracts.PriceBar) error {
	query := `
		INSERT INTO price_bars (ticker, trade_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	_, err := r.q.Exec(ctx, query,
		bar.Ticker, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	return err
}

// SaveBatch upserts multiple bars.
func (r *PriceRepository) SaveBatch(ctx context.Context, bars []contracts.PriceBar) error {
	for _, bar := range bars {
		if err := r.Save(ctx, bar); err != nil {
			return err
		}
	}
	return nil
}

// GetHistory returns up to lookback most recent bars for a ticker,
// ordered by date ascending. An unknown ticker yields an empty slice.
func (r *PriceRepository) GetHistory(ctx context.Context, ticker string, lookback int) ([]contracts.PriceBar, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM (
			SELECT ticker, trade_date, open, high, low, close, volume
			FROM price_bars
			WHERE ticker = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) recent
		ORDER BY trade_date ASC
	`

	rows, err := r.q.Query(ctx, query, ticker, lookback)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LatestDate returns a ticker's most recent trade date, or nil when no
// bars are stored.
func (r *PriceRepository) LatestDate(ctx context.Context, ticker string) (*time.Time, error) {
	var d *time.Time
	err := r.q.QueryRow(ctx, `SELECT MAX(trade_date) FROM price_bars WHERE ticker = $1`, ticker).Scan(&d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CountBars returns the number of stored bars for a ticker.
func (r *PriceRepository) CountBars(ctx context.Context, ticker string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM price_bars WHERE ticker = $1`, ticker).Scan(&n)
	return n, err
}
