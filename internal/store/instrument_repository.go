package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/ratings/internal/contracts"
)

// InstrumentRepository stores the tracked universe and company profiles.
type InstrumentRepository struct {
	q Querier
}

// NewInstrumentRepository creates a new instrument repository.
func NewInstrumentRepository(q Querier) *InstrumentRepository {
	return &InstrumentRepository{q: q}
}

// Save upserts a single instrument.
func (r *InstrumentRepository) Save(ctx context.Context, inst contracts.Instrument) error {
	query := `
		INSERT INTO instruments (ticker, exchange, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker) DO UPDATE SET
			exchange = EXCLUDED.exchange,
			name = EXCLUDED.name
	`

	_, err := r.q.Exec(ctx, query, inst.Ticker, inst.Exchange, inst.Name)
	return err
}

// SaveBatch upserts multiple instruments.
func (r *InstrumentRepository) SaveBatch(ctx context.Context, insts []contracts.Instrument) error {
	for _, inst := range insts {
		if err := r.Save(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

// ListTickers enumerates all known tickers.
func (r *InstrumentRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT ticker FROM instruments ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// SaveProfile upserts a company profile.
func (r *InstrumentRepository) SaveProfile(ctx context.Context, p contracts.Profile) error {
	query := `
		INSERT INTO company_profiles (ticker, sector, industry, market_cap)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker) DO UPDATE SET
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			market_cap = EXCLUDED.market_cap
	`

	_, err := r.q.Exec(ctx, query, p.Ticker, p.Sector, p.Industry, p.MarketCap)
	return err
}

// GetProfile retrieves a company profile, or nil when unknown.
func (r *InstrumentRepository) GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error) {
	query := `
		SELECT ticker, sector, industry, market_cap
		FROM company_profiles
		WHERE ticker = $1
	`

	var p contracts.Profile
	err := r.q.QueryRow(ctx, query, ticker).Scan(&p.Ticker, &p.Sector, &p.Industry, &p.MarketCap)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllProfiles retrieves every stored company profile keyed by ticker.
func (r *InstrumentRepository) GetAllProfiles(ctx context.Context) (map[string]contracts.Profile, error) {
	rows, err := r.q.Query(ctx, `SELECT ticker, sector, industry, market_cap FROM company_profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[string]contracts.Profile)
	for rows.Next() {
		var p contracts.Profile
		if err := rows.Scan(&p.Ticker, &p.Sector, &p.Industry, &p.MarketCap); err != nil {
			return nil, err
		}
		profiles[p.Ticker] = p
	}
	return profiles, rows.Err()
}
