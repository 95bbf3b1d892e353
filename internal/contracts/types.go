package contracts

import "time"

// PeriodKind identifies the reporting period of a fundamental statement.
type PeriodKind string

const (
	PeriodQuarterly PeriodKind = "quarterly"
	PeriodAnnual    PeriodKind = "annual"
)

// Instrument identifies one tracked equity. Identity is the ticker.
type Instrument struct {
	Ticker   string
	Exchange string
	Name     string
}

// Profile holds company profile data used for grouping and screening.
type Profile struct {
	Ticker    string
	Sector    string
	Industry  string
	MarketCap float64
}

// PriceBar is one daily OHLCV bar, unique per (ticker, date).
type PriceBar struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FundamentalStatement is one income/balance statement row, unique per
// (ticker, date, period kind).
type FundamentalStatement struct {
	Ticker             string
	Date               time.Time
	Period             PeriodKind
	Revenue            *float64
	NetIncome          *float64
	EPS                *float64
	StockholdersEquity *float64
	TotalEquity        *float64
}

// MetricKind identifies a raw per-instrument metric.
type MetricKind string

const (
	MetricRSValue          MetricKind = "rs_value"
	MetricEPSGrowthLastQtr MetricKind = "eps_growth_last_qtr"
	MetricEPSGrowthPrevQtr MetricKind = "eps_growth_prev_qtr"
	MetricEPSAnnualGrowth  MetricKind = "eps_annual_growth"
	MetricEPSStability     MetricKind = "eps_stability"
	MetricSalesGrowth3Q    MetricKind = "sales_growth_3q"
	MetricPretaxMargin     MetricKind = "pretax_margin"
	MetricAftertaxMargin   MetricKind = "aftertax_margin"
	MetricROE              MetricKind = "roe"
	MetricHighDistance52W  MetricKind = "high_distance_52w"
)

// RawMetric is one derived scalar for one instrument. Value is nil when
// the input series was insufficient. Recomputed in full each run.
type RawMetric struct {
	Ticker string
	Kind   MetricKind
	Value  *float64
}

// ADGrade is an Accumulation/Distribution letter grade.
type ADGrade string

const (
	GradeA ADGrade = "A"
	GradeB ADGrade = "B"
	GradeC ADGrade = "C"
	GradeD ADGrade = "D"
	GradeE ADGrade = "E"
)

// RatingRecord is the published per-instrument rating snapshot.
// Every field is independently nullable; the whole row is recomputed
// each run with no history kept.
type RatingRecord struct {
	Ticker          string
	RSRating        *float64
	EPSRating       *float64
	SMRRating       *string
	ADRating        *string
	CompRating      *float64
	IndustryGroupRS *float64
	PriceVs52WHigh  *float64
	UpdatedAt       time.Time
}

// Manifest summarizes one collection run: which instruments met the
// acceptance thresholds and which did not.
type Manifest struct {
	Succeeded []string
	Failed    []string
}

// Float returns a pointer to v. Convenience for nullable columns.
func Float(v float64) *float64 {
	return &v
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}
