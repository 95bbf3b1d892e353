package screener

import (
	"sort"
	"strings"

	"github.com/wonny/ratings/internal/ranking"
)

// Screen names. These are the published identifiers: stable across
// runs, safe in URLs and cache keys.
const (
	ScreenMomentum97     = "momentum_97"
	ScreenExplosiveEPS   = "explosive_eps_growth"
	ScreenUpOnVolume     = "up_on_volume"
	ScreenTop2PercentRS  = "top_2_percent_rs"
	ScreenFourPctBullish = "four_percent_bullish"
	ScreenHealthyChart   = "healthy_chart"
)

// Rule is one per-instrument screen. Momentum 97 is cross-sectional
// and lives in Momentum97 instead.
type Rule struct {
	Name  string
	Match func(s *Snapshot) bool
}

// Rules returns the per-instrument screens in publication order.
func Rules() []Rule {
	return []Rule{
		{Name: ScreenExplosiveEPS, Match: explosiveEPSGrowth},
		{Name: ScreenUpOnVolume, Match: upOnVolume},
		{Name: ScreenTop2PercentRS, Match: top2PercentRS},
		{Name: ScreenFourPctBullish, Match: fourPercentBullish},
		{Name: ScreenHealthyChart, Match: healthyChart},
	}
}

// explosiveEPSGrowth: strong RS, strong short-term strength, earnings
// at least doubling year over year, liquid, and trading above the 50MA.
func explosiveEPSGrowth(s *Snapshot) bool {
	if rs, ok := s.rsRating(); !ok || rs < 80 {
		return false
	}
	if !s.rsSTSPasses() {
		return false
	}
	if s.LastQtrEPSGrowth == nil || *s.LastQtrEPSGrowth < 100 {
		return false
	}
	if s.Volume == nil || s.Volume.AvgVol50 < 100_000 {
		return false
	}
	if s.Price == nil || s.MAs == nil || s.Price.Price < s.MAs.MA50 {
		return false
	}
	return true
}

// upOnVolume: an up day on a volume surge in a liquid mid-cap or larger
// name with strong RS and decent earnings growth.
func upOnVolume(s *Snapshot) bool {
	if rs, ok := s.rsRating(); !ok || rs < 80 {
		return false
	}
	if !s.rsSTSPasses() {
		return false
	}
	switch s.adGrade() {
	case "A", "B", "C":
	default:
		return false
	}
	if s.Price == nil || s.Price.PctChange1D < 0 || s.Price.Price < 10 {
		return false
	}
	if s.Volume == nil || s.Volume.AvgVol50 < 100_000 || s.Volume.VolChangePct < 20 {
		return false
	}
	if mcap, ok := s.marketCap(); !ok || mcap < 250_000_000 {
		return false
	}
	if s.LastQtrEPSGrowth == nil || *s.LastQtrEPSGrowth < 20 {
		return false
	}
	return true
}

// top2PercentRS: the strongest 2% by RS rating in a short-term uptrend,
// excluding healthcare and medical names.
func top2PercentRS(s *Snapshot) bool {
	if rs, ok := s.rsRating(); !ok || rs < 98 {
		return false
	}
	if !s.rsSTSPasses() {
		return false
	}
	if s.MAs == nil || !s.MAs.ShortTrendUp() {
		return false
	}
	if s.Volume == nil || s.Volume.AvgVol50 < 100_000 || s.Volume.CurrentVolume < 100_000 {
		return false
	}
	if s.Profile != nil {
		sector := strings.ToLower(s.Profile.Sector)
		if strings.Contains(sector, "healthcare") || strings.Contains(sector, "medical") {
			return false
		}
	}
	return true
}

// fourPercentBullish: yesterday's 4%+ gainers on above-average volume.
// Strict inequalities throughout.
func fourPercentBullish(s *Snapshot) bool {
	if s.Price == nil || s.Price.Price < 1 {
		return false
	}
	if s.Price.PctChange1D <= 4 || s.Price.ChangeFromOpen <= 0 {
		return false
	}
	if s.Volume == nil || s.Volume.CurrentVolume <= 100_000 || s.Volume.RelVolume <= 1 || s.Volume.AvgVol90 <= 100_000 {
		return false
	}
	if mcap, ok := s.marketCap(); !ok || mcap <= 250_000_000 {
		return false
	}
	return s.rsSTSPasses()
}

// healthyChart: high RS and composite with both trend stacks aligned
// and price near its 52-week high.
func healthyChart(s *Snapshot) bool {
	rs, ok := s.rsRating()
	if !ok || rs < 90 {
		return false
	}
	if s.Rating.CompRating == nil || *s.Rating.CompRating < 80 {
		return false
	}
	switch s.adGrade() {
	case "A", "B":
	default:
		return false
	}
	if s.MAs == nil || !s.MAs.ShortTrendUp() || !s.MAs.LongTrendUp() {
		return false
	}
	if s.Rating.PriceVs52WHigh == nil || *s.Rating.PriceVs52WHigh < -5 {
		return false
	}
	if s.Volume == nil || s.Volume.AvgVol50 < 100_000 {
		return false
	}
	return true
}

// Momentum97 keeps instruments ranking at or above the 97th percentile
// on 1, 3, and 6 month returns simultaneously. Instruments missing any
// horizon are excluded from all three rankings.
func Momentum97(snapshots map[string]*Snapshot) []string {
	pct1m := make(map[string]*float64)
	pct3m := make(map[string]*float64)
	pct6m := make(map[string]*float64)

	for ticker, s := range snapshots {
		if s.Price == nil || s.Price.Pct1M == nil || s.Price.Pct3M == nil || s.Price.Pct6M == nil {
			continue
		}
		pct1m[ticker] = s.Price.Pct1M
		pct3m[ticker] = s.Price.Pct3M
		pct6m[ticker] = s.Price.Pct6M
	}

	rank1m := ranking.Rank(pct1m)
	rank3m := ranking.Rank(pct3m)
	rank6m := ranking.Rank(pct6m)

	var passed []string
	for ticker := range pct1m {
		if rank1m[ticker] >= 97 && rank3m[ticker] >= 97 && rank6m[ticker] >= 97 {
			passed = append(passed, ticker)
		}
	}
	sort.Strings(passed)
	return passed
}
