package forecast

import (
	"math"
	"sort"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// MonthlyRevenue buckets commission and conversion amounts by calendar month
// (key YYYY-MM). Aggregation is best-effort: an event whose timestamp fails
// to parse is skipped on its own, never failing the series.
func MonthlyRevenue(events []*models.Event) map[string]float64 {
	monthly := make(map[string]float64)
	for _, ev := range events {
		amount, ok := ev.CommissionAmount()
		if !ok {
			continue
		}
		t, err := models.ParseEventTime(ev.Date)
		if err != nil {
			continue
		}
		monthly[t.Format("2006-01")] += amount
	}
	return monthly
}

// SeriesStats are the dispersion and trend statistics derived from a monthly
// revenue series. They seed both the forecast and the scenarios.
type SeriesStats struct {
	// Average is the arithmetic mean of the monthly revenues; 0 when empty.
	Average float64

	// GrowthRate is the average month-over-month percentage change,
	// computed only over consecutive pairs whose prior month is strictly
	// positive. Zero-denominator pairs are excluded from the average, not
	// counted as 0% growth.
	GrowthRate float64

	// StdDev is the population standard deviation of the revenues.
	StdDev float64

	// BaseConfidence reflects data volume: 90 with >=3 months, 80 with
	// >=1, 70 otherwise.
	BaseConfidence int

	// ConfidenceAdj is the coefficient of variation in points, capped at
	// 20; subtracted from BaseConfidence when projecting.
	ConfidenceAdj float64
}

// ComputeSeriesStats derives SeriesStats from a monthly revenue mapping.
func ComputeSeriesStats(monthly map[string]float64) SeriesStats {
	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	var stats SeriesStats

	n := len(months)
	if n > 0 {
		var sum float64
		for _, m := range months {
			sum += monthly[m]
		}
		stats.Average = sum / float64(n)

		var variance float64
		for _, m := range months {
			d := monthly[m] - stats.Average
			variance += d * d
		}
		stats.StdDev = math.Sqrt(variance / float64(n))
	}

	var totalGrowth float64
	var growthCount int
	for i := 1; i < n; i++ {
		prev := monthly[months[i-1]]
		curr := monthly[months[i]]
		if prev > 0 {
			totalGrowth += (curr - prev) / prev * 100
			growthCount++
		}
	}
	if growthCount > 0 {
		stats.GrowthRate = totalGrowth / float64(growthCount)
	}

	switch {
	case n >= 3:
		stats.BaseConfidence = 90
	case n >= 1:
		stats.BaseConfidence = 80
	default:
		stats.BaseConfidence = 70
	}

	if stats.Average > 0 {
		stats.ConfidenceAdj = math.Min(20, stats.StdDev/stats.Average*100)
	}

	return stats
}
