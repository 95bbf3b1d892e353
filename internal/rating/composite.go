package rating

import (
	"github.com/wonny/ratings/internal/ranking"
)

// Composite weights. RS and EPS carry double weight; the rest shade the
// score without dominating it.
const (
	weightRS     = 0.30
	weightEPS    = 0.30
	weightAD     = 0.15
	weightSMR    = 0.10
	weightIGRS   = 0.10
	weight52High = 0.05
)

// Composite blends the individual ratings into one 0-100 score. Missing
// components drop out and the remaining weights renormalize. Returns
// nil when both the RS and EPS ratings are missing: a score built only
// from secondary components would be noise.
func Composite(rs, eps *float64, adGrade, smrGrade *string, industryRS, high52Dist *float64) *float64 {
	if rs == nil && eps == nil {
		return nil
	}

	score, weightSum := 0.0, 0.0

	if rs != nil {
		score += *rs * weightRS
		weightSum += weightRS
	}
	if eps != nil {
		score += *eps * weightEPS
		weightSum += weightEPS
	}
	if adGrade != nil {
		if v, ok := gradeScores[*adGrade]; ok {
			score += v * weightAD
			weightSum += weightAD
		}
	}
	if smrGrade != nil {
		if v, ok := gradeScores[*smrGrade]; ok {
			score += v * weightSMR
			weightSum += weightSMR
		}
	}
	if industryRS != nil {
		score += *industryRS * weightIGRS
		weightSum += weightIGRS
	}
	if high52Dist != nil {
		score += highScore(*high52Dist) * weight52High
		weightSum += weight52High
	}

	if weightSum == 0 {
		return nil
	}

	combined := score / weightSum
	if combined > 100 {
		combined = 100
	}
	if combined < 0 {
		combined = 0
	}

	rounded := ranking.Round2(combined)
	return &rounded
}

// highScore converts the distance below the 52-week high (a percentage,
// zero or negative) into a 0-100 sub-score. Within 5% of the high is a
// full score; the score decays faster through the 5-15% band and slower
// below it.
func highScore(distance float64) float64 {
	switch {
	case distance >= -5:
		return 100
	case distance >= -15:
		return 100 - (abs(distance)-5)*5
	default:
		score := 50 - (abs(distance)-15)*3.33
		if score < 0 {
			return 0
		}
		return score
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
