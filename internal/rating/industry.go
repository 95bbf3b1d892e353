package rating

import (
	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/ranking"
)

// minIndustryMembers is the smallest group whose average is treated as
// a real industry signal rather than one or two outliers.
const minIndustryMembers = 3

// IndustryGroupRS ranks industries by the average relative-strength
// value of their members and assigns every member its industry's
// percentile. Instruments without a profile, an industry (sector is
// the fallback), or an RS value are skipped, as are industries with
// fewer than three RS-bearing members.
func IndustryGroupRS(profiles map[string]contracts.Profile, rsValues map[string]float64) map[string]float64 {
	memberships := make(map[string][]string)
	sums := make(map[string]float64)

	for ticker, rs := range rsValues {
		profile, ok := profiles[ticker]
		if !ok {
			continue
		}

		industry := profile.Industry
		if industry == "" {
			industry = profile.Sector
		}
		if industry == "" {
			continue
		}

		memberships[industry] = append(memberships[industry], ticker)
		sums[industry] += rs
	}

	averages := make(map[string]*float64)
	for industry, members := range memberships {
		if len(members) < minIndustryMembers {
			continue
		}
		averages[industry] = contracts.Float(sums[industry] / float64(len(members)))
	}

	industryRanks := ranking.Rank(averages)

	result := make(map[string]float64)
	for industry, members := range memberships {
		pct, ok := industryRanks[industry]
		if !ok {
			continue
		}
		for _, ticker := range members {
			result[ticker] = pct
		}
	}
	return result
}
