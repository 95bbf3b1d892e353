package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/ratings/internal/contracts"
)

// RatingRepository stores the published per-instrument rating snapshot.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(q Querier) *RatingRepository {
	return &RatingRepository{q: q}
}

// Save upserts one rating row.
func (r *RatingRepository) Save(ctx context.Context, rec contracts.RatingRecord) error {
	query := `
		INSERT INTO ratings
			(ticker, rs_rating, eps_rating, smr_rating, ad_rating, comp_rating,
			 industry_group_rs, price_vs_52w_high, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ticker) DO UPDATE SET
			rs_rating = EXCLUDED.rs_rating,
			eps_rating = EXCLUDED.eps_rating,
			smr_rating = EXCLUDED.smr_rating,
			ad_rating = EXCLUDED.ad_rating,
			comp_rating = EXCLUDED.comp_rating,
			industry_group_rs = EXCLUDED.industry_group_rs,
			price_vs_52w_high = EXCLUDED.price_vs_52w_high,
			updated_at = EXCLUDED.updated_at
	`

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	_, err := r.q.Exec(ctx, query,
		rec.Ticker, rec.RSRating, rec.EPSRating, rec.SMRRating, rec.ADRating,
		rec.CompRating, rec.IndustryGroupRS, rec.PriceVs52WHigh, rec.UpdatedAt,
	)
	return err
}

// Get retrieves one rating row, or nil when the ticker has none.
func (r *RatingRepository) Get(ctx context.Context, ticker string) (*contracts.RatingRecord, error) {
	query := `
		SELECT ticker, rs_rating, eps_rating, smr_rating, ad_rating, comp_rating,
		       industry_group_rs, price_vs_52w_high, updated_at
		FROM ratings
		WHERE ticker = $1
	`

	var rec contracts.RatingRecord
	err := r.q.QueryRow(ctx, query, ticker).Scan(
		&rec.Ticker, &rec.RSRating, &rec.EPSRating, &rec.SMRRating, &rec.ADRating,
		&rec.CompRating, &rec.IndustryGroupRS, &rec.PriceVs52WHigh, &rec.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAll retrieves every rating row keyed by ticker.
func (r *RatingRepository) GetAll(ctx context.Context) (map[string]contracts.RatingRecord, error) {
	query := `
		SELECT ticker, rs_rating, eps_rating, smr_rating, ad_rating, comp_rating,
		       industry_group_rs, price_vs_52w_high, updated_at
		FROM ratings
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[string]contracts.RatingRecord)
	for rows.Next() {
		var rec contracts.RatingRecord
		if err := rows.Scan(
			&rec.Ticker, &rec.RSRating, &rec.EPSRating, &rec.SMRRating, &rec.ADRating,
			&rec.CompRating, &rec.IndustryGroupRS, &rec.PriceVs52WHigh, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ratings[rec.Ticker] = rec
	}
	return ratings, rows.Err()
}

// TopByComposite returns the highest-composite rows, best first.
func (r *RatingRepository) TopByComposite(ctx context.Context, limit int) ([]contracts.RatingRecord, error) {
	query := `
		SELECT ticker, rs_rating, eps_rating, smr_rating, ad_rating, comp_rating,
		       industry_group_rs, price_vs_52w_high, updated_at
		FROM ratings
		WHERE comp_rating IS NOT NULL
		ORDER BY comp_rating DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.RatingRecord
	for rows.Next() {
		var rec contracts.RatingRecord
		if err := rows.Scan(
			&rec.Ticker, &rec.RSRating, &rec.EPSRating, &rec.SMRRating, &rec.ADRating,
			&rec.CompRating, &rec.IndustryGroupRS, &rec.PriceVs52WHigh, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
