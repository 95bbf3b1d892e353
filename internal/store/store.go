package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and *pgxpool.Conn satisfy it, so a Store can be bound
// either to the shared pool or to one dedicated connection.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles all repositories over one Querier.
type Store struct {
	Instruments  *InstrumentRepository
	Prices       *PriceRepository
	Fundamentals *FundamentalRepository
	Metrics      *MetricRepository
	Ratings      *RatingRepository
	Screens      *ScreenRepository

	q Querier
}

// New creates a Store bound to a Querier: the shared pool, or one
// dedicated connection. Collector workers bind per-batch connections so
// batches never share a handle.
func New(q Querier) *Store {
	return bind(q)
}

func bind(q Querier) *Store {
	return &Store{
		Instruments:  NewInstrumentRepository(q),
		Prices:       NewPriceRepository(q),
		Fundamentals: NewFundamentalRepository(q),
		Metrics:      NewMetricRepository(q),
		Ratings:      NewRatingRepository(q),
		Screens:      NewScreenRepository(q),
		q:            q,
	}
}
