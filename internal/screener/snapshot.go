package screener

import (
	"context"
	"fmt"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/store"
)

// Snapshot is everything the screen rules read for one instrument.
// Sections are independently nil when the underlying data is missing;
// rules treat a nil section as a failed condition.
type Snapshot struct {
	Ticker           string
	Profile          *contracts.Profile
	Rating           *contracts.RatingRecord
	Price            *PriceMetrics
	Volume           *VolumeMetrics
	MAs              *MovingAverages
	LastQtrEPSGrowth *float64
	RSSTS            *float64
}

// LoadSnapshot assembles one instrument's snapshot from the store.
// benchmark is the ascending bar history of the benchmark instrument.
func LoadSnapshot(ctx context.Context, st *store.Store, ticker string, lookbackDays int, benchmark []contracts.PriceBar) (*Snapshot, error) {
	bars, err := st.Prices.GetHistory(ctx, ticker, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	profile, err := st.Instruments.GetProfile(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	rating, err := st.Ratings.Get(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load rating: %w", err)
	}

	epsGrowth, err := st.Metrics.GetValue(ctx, ticker, contracts.MetricEPSGrowthLastQtr)
	if err != nil {
		return nil, fmt.Errorf("load eps growth: %w", err)
	}

	return &Snapshot{
		Ticker:           ticker,
		Profile:          profile,
		Rating:           rating,
		Price:            ComputePriceMetrics(bars),
		Volume:           ComputeVolumeMetrics(bars),
		MAs:              ComputeMovingAverages(bars),
		LastQtrEPSGrowth: epsGrowth,
		RSSTS:            RSSTS(bars, benchmark),
	}, nil
}

func (s *Snapshot) rsRating() (float64, bool) {
	if s.Rating == nil || s.Rating.RSRating == nil {
		return 0, false
	}
	return *s.Rating.RSRating, true
}

func (s *Snapshot) adGrade() string {
	if s.Rating == nil || s.Rating.ADRating == nil {
		return ""
	}
	return *s.Rating.ADRating
}

func (s *Snapshot) marketCap() (float64, bool) {
	if s.Profile == nil || s.Profile.MarketCap == 0 {
		return 0, false
	}
	return s.Profile.MarketCap, true
}

func (s *Snapshot) rsSTSPasses() bool {
	return s.RSSTS != nil && *s.RSSTS >= 80
}
