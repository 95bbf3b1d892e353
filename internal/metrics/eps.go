package metrics

import (
	"math"

	"github.com/wonny/ratings/internal/contracts"
)

const (
	stabilityWindow      = 8
	stabilityMinPositive = 6
	annualGrowthSpan     = 3
)

// EPSMetrics are the earnings components feeding the EPS rating.
// Each is independently nil when its inputs are missing.
type EPSMetrics struct {
	LastQtrGrowth *float64
	PrevQtrGrowth *float64
	AnnualGrowth  *float64
	Stability     *float64
}

// DeriveEPS computes earnings-growth metrics from quarterly and annual
// income statements, both ordered most recent first.
func DeriveEPS(quarterly, annual []contracts.FundamentalStatement) EPSMetrics {
	return EPSMetrics{
		LastQtrGrowth: quarterYoYGrowth(quarterly, 0),
		PrevQtrGrowth: quarterYoYGrowth(quarterly, 1),
		AnnualGrowth:  annualCAGR(annual),
		Stability:     epsStability(quarterly),
	}
}

// quarterYoYGrowth is the year-over-year EPS change for the quarter at
// the given offset, against the same quarter one year earlier. The
// denominator uses the absolute value so a loss-to-profit swing ranks
// as growth.
func quarterYoYGrowth(quarterly []contracts.FundamentalStatement, offset int) *float64 {
	current, prior := offset, offset+4
	if len(quarterly) <= prior {
		return nil
	}

	cur, old := quarterly[current].EPS, quarterly[prior].EPS
	if cur == nil || old == nil || *old == 0 {
		return nil
	}
	return contracts.Float((*cur - *old) / math.Abs(*old) * 100)
}

// annualCAGR is the compound annual EPS growth over up to three years.
// Both endpoints must be positive for the geometric mean to be defined.
func annualCAGR(annual []contracts.FundamentalStatement) *float64 {
	if len(annual) < annualGrowthSpan {
		return nil
	}

	span := annualGrowthSpan
	if len(annual)-1 < span {
		span = len(annual) - 1
	}

	newest, oldest := annual[0].EPS, annual[span].EPS
	if newest == nil || oldest == nil || *newest <= 0 || *oldest <= 0 {
		return nil
	}

	cagr := (math.Pow(*newest / *oldest, 1/float64(span)) - 1) * 100
	return contracts.Float(cagr)
}

// epsStability scores how consistent quarterly earnings are: 100 minus
// the coefficient of variation (in percent) of positive EPS values in
// the trailing window, floored at zero. Requires at least six positive
// quarters of the last eight.
func epsStability(quarterly []contracts.FundamentalStatement) *float64 {
	window := quarterly
	if len(window) > stabilityWindow {
		window = window[:stabilityWindow]
	}

	var positives []float64
	for _, stmt := range window {
		if stmt.EPS != nil && *stmt.EPS > 0 {
			positives = append(positives, *stmt.EPS)
		}
	}
	if len(positives) < stabilityMinPositive {
		return nil
	}

	mean := meanOf(positives)
	if mean == 0 {
		return nil
	}

	variance := 0.0
	for _, v := range positives {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(positives)))

	stability := 100 - std/mean*100
	if stability < 0 {
		stability = 0
	}
	return contracts.Float(stability)
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
