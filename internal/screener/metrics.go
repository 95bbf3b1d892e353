package screener

import "github.com/wonny/ratings/internal/contracts"

// PriceMetrics are the latest-bar price readings screen rules consume.
// Horizon returns are nil when the history is too short.
type PriceMetrics struct {
	Price          float64
	PctChange1D    float64
	ChangeFromOpen float64
	Pct1M          *float64
	Pct3M          *float64
	Pct6M          *float64
}

// ComputePriceMetrics derives price metrics from ascending daily bars.
// Needs at least two bars.
func ComputePriceMetrics(bars []contracts.PriceBar) *PriceMetrics {
	n := len(bars)
	if n < 2 {
		return nil
	}

	last := bars[n-1]
	m := &PriceMetrics{Price: last.Close}

	if prev := bars[n-2].Close; prev != 0 {
		m.PctChange1D = (last.Close - prev) / prev * 100
	}
	if last.Open != 0 {
		m.ChangeFromOpen = (last.Close - last.Open) / last.Open * 100
	}

	m.Pct1M = horizonReturn(bars, 21)
	m.Pct3M = horizonReturn(bars, 63)
	m.Pct6M = horizonReturn(bars, 126)
	return m
}

func horizonReturn(bars []contracts.PriceBar, period int) *float64 {
	n := len(bars)
	if n < period {
		return nil
	}
	anchor := bars[n-period].Close
	if anchor == 0 {
		return nil
	}
	return contracts.Float((bars[n-1].Close - anchor) / anchor * 100)
}

// VolumeMetrics are trailing volume readings. Volumes are raw share
// counts, not thousands.
type VolumeMetrics struct {
	AvgVol50      float64
	AvgVol90      float64
	CurrentVolume float64
	VolChangePct  float64
	RelVolume     float64
}

// ComputeVolumeMetrics derives volume metrics. Needs at least 90 bars.
func ComputeVolumeMetrics(bars []contracts.PriceBar) *VolumeMetrics {
	n := len(bars)
	if n < 90 {
		return nil
	}

	m := &VolumeMetrics{
		AvgVol50:      avgVolume(bars, 50),
		AvgVol90:      avgVolume(bars, 90),
		CurrentVolume: bars[n-1].Volume,
	}
	if m.AvgVol50 > 0 {
		m.VolChangePct = (m.CurrentVolume - m.AvgVol50) / m.AvgVol50 * 100
		m.RelVolume = m.CurrentVolume / m.AvgVol50
	}
	return m
}

func avgVolume(bars []contracts.PriceBar, period int) float64 {
	n := len(bars)
	sum := 0.0
	for _, bar := range bars[n-period:] {
		sum += bar.Volume
	}
	return sum / float64(period)
}

// MovingAverages are the simple moving averages of the close at the
// standard trend-template horizons.
type MovingAverages struct {
	MA10  float64
	MA21  float64
	MA50  float64
	MA150 float64
	MA200 float64
}

// ComputeMovingAverages derives the moving-average set. Needs at least
// 200 bars.
func ComputeMovingAverages(bars []contracts.PriceBar) *MovingAverages {
	if len(bars) < 200 {
		return nil
	}
	return &MovingAverages{
		MA10:  avgClose(bars, 10),
		MA21:  avgClose(bars, 21),
		MA50:  avgClose(bars, 50),
		MA150: avgClose(bars, 150),
		MA200: avgClose(bars, 200),
	}
}

func avgClose(bars []contracts.PriceBar, period int) float64 {
	n := len(bars)
	sum := 0.0
	for _, bar := range bars[n-period:] {
		sum += bar.Close
	}
	return sum / float64(period)
}

// ShortTrendUp reports 10MA > 21MA > 50MA.
func (m *MovingAverages) ShortTrendUp() bool {
	return m.MA10 > m.MA21 && m.MA21 > m.MA50
}

// LongTrendUp reports 50MA > 150MA > 200MA.
func (m *MovingAverages) LongTrendUp() bool {
	return m.MA50 > m.MA150 && m.MA150 > m.MA200
}
