package screener

import (
	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/ranking"
)

// rsSTSWindow is the number of shared trading days the short-term
// relative-strength series covers.
const rsSTSWindow = 25

// RSSTS is the short-term strength percentile of the target against the
// benchmark: the ratio series close_target/close_benchmark over the
// last 25 shared dates, with the latest ratio ranked within the series
// itself. Returns nil when fewer than 25 dates overlap or a benchmark
// close is zero.
func RSSTS(target, benchmark []contracts.PriceBar) *float64 {
	if len(target) == 0 || len(benchmark) == 0 {
		return nil
	}

	benchCloses := make(map[string]float64, len(benchmark))
	for _, bar := range benchmark {
		benchCloses[bar.Date.Format("2006-01-02")] = bar.Close
	}

	// Inner join on date, preserving the target's ascending order.
	type pair struct{ target, bench float64 }
	var joined []pair
	for _, bar := range target {
		benchClose, ok := benchCloses[bar.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		joined = append(joined, pair{target: bar.Close, bench: benchClose})
	}

	if len(joined) < rsSTSWindow {
		return nil
	}
	joined = joined[len(joined)-rsSTSWindow:]

	ratios := make([]float64, len(joined))
	for i, p := range joined {
		if p.bench == 0 {
			return nil
		}
		ratios[i] = p.target / p.bench
	}

	return contracts.Float(ranking.TemporalRank(ratios))
}
