package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

func TestMonthlyRevenueBucketsByCalendarMonth(t *testing.T) {
	events := []*models.Event{
		commissionEvent("Holiday Discounts", "2024-01-05T10:00:00Z", 100),
		conversionEvent("Electronics Blast", "2024-01-20T10:00:00+00:00", 150),
		commissionEvent("Prime Deals", "2024-02-01T08:30:00Z", 300),
		// Zone-less local timestamps still land in their month.
		commissionEvent("Back-to-School", "2024-02-15T12:00:00.123456", 200),
		// Clicks and payouts carry no commission amount.
		clickEvent("Holiday Discounts", "2024-01-06T10:00:00Z", 50),
		payoutEvent("2024-02-20T10:00:00Z", -400, models.PayoutPending),
	}

	monthly := MonthlyRevenue(events)

	require.Len(t, monthly, 2)
	assert.Equal(t, 250.0, monthly["2024-01"])
	assert.Equal(t, 500.0, monthly["2024-02"])
}

func TestMonthlyRevenueSkipsUnparseableTimestamps(t *testing.T) {
	events := []*models.Event{
		commissionEvent("Holiday Discounts", "2024-01-05T10:00:00Z", 100),
		commissionEvent("Holiday Discounts", "not-a-date", 9999),
		commissionEvent("Holiday Discounts", "", 9999),
	}

	monthly := MonthlyRevenue(events)

	// One malformed timestamp never invalidates the series.
	require.Len(t, monthly, 1)
	assert.Equal(t, 100.0, monthly["2024-01"])
}

func TestComputeSeriesStatsEmpty(t *testing.T) {
	stats := ComputeSeriesStats(map[string]float64{})

	assert.Zero(t, stats.Average)
	assert.Zero(t, stats.GrowthRate)
	assert.Zero(t, stats.StdDev)
	assert.Equal(t, 70, stats.BaseConfidence)
	assert.Zero(t, stats.ConfidenceAdj)
}

func TestComputeSeriesStatsSingleMonth(t *testing.T) {
	stats := ComputeSeriesStats(map[string]float64{"2024-03": 2000})

	assert.Equal(t, 2000.0, stats.Average)
	assert.Zero(t, stats.GrowthRate, "no prior month to compare")
	assert.Zero(t, stats.StdDev)
	assert.Equal(t, 80, stats.BaseConfidence)
	assert.Zero(t, stats.ConfidenceAdj)
}

func TestComputeSeriesStatsGrowthAndDispersion(t *testing.T) {
	stats := ComputeSeriesStats(map[string]float64{
		"2024-01": 1000,
		"2024-02": 1500,
	})

	assert.Equal(t, 1250.0, stats.Average)
	assert.Equal(t, 50.0, stats.GrowthRate)
	assert.Equal(t, 250.0, stats.StdDev)
	assert.Equal(t, 80, stats.BaseConfidence)
	// Coefficient of variation: 250/1250*100 = 20, at the cap.
	assert.Equal(t, 20.0, stats.ConfidenceAdj)
}

func TestComputeSeriesStatsExcludesZeroDenominators(t *testing.T) {
	stats := ComputeSeriesStats(map[string]float64{
		"2024-01": 0,
		"2024-02": 100,
	})

	// The 0 -> 100 pair has no defined percentage growth and is excluded
	// from the average rather than counted as 0%.
	assert.Zero(t, stats.GrowthRate)
}

func TestComputeSeriesStatsBaseConfidenceTiers(t *testing.T) {
	three := ComputeSeriesStats(map[string]float64{
		"2024-01": 1000, "2024-02": 1000, "2024-03": 1000,
	})
	assert.Equal(t, 90, three.BaseConfidence)
	assert.Zero(t, three.ConfidenceAdj, "flat series has no dispersion")
}

func TestComputeSeriesStatsAdjustmentCap(t *testing.T) {
	// Wildly dispersed series: cv far above 20, adjustment stays capped.
	stats := ComputeSeriesStats(map[string]float64{
		"2024-01": 10,
		"2024-02": 5000,
		"2024-03": 10,
	})

	assert.Equal(t, 20.0, stats.ConfidenceAdj)
	assert.Equal(t, 90, stats.BaseConfidence)
}
