package metrics

import (
	"math"

	"github.com/wonny/ratings/internal/contracts"
)

const (
	smrMinQuarters  = 8
	salesGrowthMax  = 3
	pretaxEstFactor = 1.25
)

// SMRMetrics are the sales/margin/return components of the SMR rating.
type SMRMetrics struct {
	SalesGrowth3Q  *float64
	PretaxMargin   *float64
	AftertaxMargin *float64
	ROE            *float64
}

// DeriveSMR computes sales growth, margins, and return on equity from
// quarterly and annual statements, both ordered most recent first.
// Requires a full two years of quarters and at least one annual report.
func DeriveSMR(quarterly, annual []contracts.FundamentalStatement) SMRMetrics {
	if len(quarterly) < smrMinQuarters || len(annual) == 0 {
		return SMRMetrics{}
	}

	return SMRMetrics{
		SalesGrowth3Q:  salesGrowth(quarterly),
		PretaxMargin:   pretaxMargin(annual[0]),
		AftertaxMargin: aftertaxMargin(quarterly[0]),
		ROE:            returnOnEquity(annual[0]),
	}
}

// salesGrowth averages year-over-year revenue growth across the latest
// three quarters, skipping quarters without a valid comparison.
func salesGrowth(quarterly []contracts.FundamentalStatement) *float64 {
	var growths []float64
	for i := 0; i < salesGrowthMax && i+4 < len(quarterly); i++ {
		cur, old := quarterly[i].Revenue, quarterly[i+4].Revenue
		if cur == nil || old == nil || *old == 0 {
			continue
		}
		growths = append(growths, (*cur-*old)/math.Abs(*old)*100)
	}
	if len(growths) == 0 {
		return nil
	}
	return contracts.Float(meanOf(growths))
}

// aftertaxMargin is net income over revenue for the latest quarter.
func aftertaxMargin(stmt contracts.FundamentalStatement) *float64 {
	if stmt.NetIncome == nil || stmt.Revenue == nil || *stmt.Revenue == 0 {
		return nil
	}
	return contracts.Float(*stmt.NetIncome / *stmt.Revenue * 100)
}

// pretaxMargin approximates the annual pre-tax margin by scaling the
// after-tax margin for a typical effective tax rate.
func pretaxMargin(stmt contracts.FundamentalStatement) *float64 {
	aftertax := aftertaxMargin(stmt)
	if aftertax == nil {
		return nil
	}
	return contracts.Float(*aftertax * pretaxEstFactor)
}

// returnOnEquity is annual net income over stockholders' equity,
// falling back to total equity when the former is missing.
func returnOnEquity(stmt contracts.FundamentalStatement) *float64 {
	equity := stmt.StockholdersEquity
	if equity == nil {
		equity = stmt.TotalEquity
	}
	if stmt.NetIncome == nil || equity == nil || *equity == 0 {
		return nil
	}
	return contracts.Float(*stmt.NetIncome / *equity * 100)
}
