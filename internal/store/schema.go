package store

import (
	"context"
	"fmt"
)

// schemaDDL creates every table the pipeline uses. Price bars and
// fundamental statements are durable upserted facts; metric, rank, and
// rating tables hold the latest run's snapshot only.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS instruments (
		ticker   TEXT PRIMARY KEY,
		exchange TEXT,
		name     TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS company_profiles (
		ticker     TEXT PRIMARY KEY,
		sector     TEXT,
		industry   TEXT,
		market_cap DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS price_bars (
		ticker     TEXT NOT NULL,
		trade_date DATE NOT NULL,
		open       DOUBLE PRECISION NOT NULL,
		high       DOUBLE PRECISION NOT NULL,
		low        DOUBLE PRECISION NOT NULL,
		close      DOUBLE PRECISION NOT NULL,
		volume     DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (ticker, trade_date)
	)`,
	`CREATE TABLE IF NOT EXISTS fundamental_statements (
		ticker              TEXT NOT NULL,
		report_date         DATE NOT NULL,
		period_kind         TEXT NOT NULL,
		revenue             DOUBLE PRECISION,
		net_income          DOUBLE PRECISION,
		eps                 DOUBLE PRECISION,
		stockholders_equity DOUBLE PRECISION,
		total_equity        DOUBLE PRECISION,
		PRIMARY KEY (ticker, report_date, period_kind)
	)`,
	`CREATE TABLE IF NOT EXISTS raw_metrics (
		ticker TEXT NOT NULL,
		kind   TEXT NOT NULL,
		value  DOUBLE PRECISION,
		PRIMARY KEY (ticker, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS ad_grades (
		ticker TEXT PRIMARY KEY,
		grade  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS percentile_ranks (
		ticker     TEXT NOT NULL,
		kind       TEXT NOT NULL,
		percentile DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (ticker, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS screen_results (
		screen TEXT NOT NULL,
		ticker TEXT NOT NULL,
		run_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (screen, ticker)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		ticker            TEXT PRIMARY KEY,
		rs_rating         DOUBLE PRECISION,
		eps_rating        DOUBLE PRECISION,
		smr_rating        TEXT,
		ad_rating         TEXT,
		comp_rating       DOUBLE PRECISION,
		industry_group_rs DOUBLE PRECISION,
		price_vs_52w_high DOUBLE PRECISION,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates missing tables. Safe to run on every start.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, ddl := range schemaDDL {
		if _, err := q.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
