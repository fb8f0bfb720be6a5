package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

func TestBuildScenariosFixedShape(t *testing.T) {
	scenarios := BuildScenarios(SeriesStats{})

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Conservative", scenarios[0].Name)
	assert.Equal(t, "Optimistic", scenarios[1].Name)
	assert.Equal(t, "Aggressive", scenarios[2].Name)
	assert.Equal(t, 85, scenarios[0].Probability)
	assert.Equal(t, 65, scenarios[1].Probability)
	assert.Equal(t, 35, scenarios[2].Probability)
	for _, s := range scenarios {
		assert.NotEmpty(t, s.Description)
	}
}

func TestBuildScenariosEmptyHistoryUsesFloor(t *testing.T) {
	// No history: base 1000, growth 0 -> every quarter round(1000*3).
	scenarios := BuildScenarios(SeriesStats{})

	for _, s := range scenarios {
		assert.Equal(t, 3000, s.Q1)
		assert.Equal(t, 3000, s.Q2)
		assert.Equal(t, 3000, s.Q3)
		assert.Equal(t, 3000, s.Q4)
		assert.Equal(t, 12000, s.Total)
	}
}

func TestBuildScenariosGrowthMultipliers(t *testing.T) {
	stats := SeriesStats{Average: 1000, GrowthRate: 10}
	scenarios := BuildScenarios(stats)

	// Aggressive doubles the rate: 20% monthly compounding.
	aggressive := scenarios[2]
	assert.Equal(t, 3000, aggressive.Q1)
	assert.Equal(t, 3600, aggressive.Q2)
	assert.Equal(t, 4320, aggressive.Q3)
	assert.Equal(t, 5184, aggressive.Q4)
	assert.Equal(t, 16104, aggressive.Total)

	// Conservative halves it: 5% monthly compounding.
	conservative := scenarios[0]
	assert.Equal(t, 3000, conservative.Q1)
	assert.Equal(t, 3150, conservative.Q2)
}

func TestBuildScenariosConservativeFloorsNegativeGrowth(t *testing.T) {
	stats := SeriesStats{Average: 1000, GrowthRate: -50}
	scenarios := BuildScenarios(stats)

	// Conservative is floored at 0%: flat quarters.
	conservative := scenarios[0]
	assert.Equal(t, 3000, conservative.Q1)
	assert.Equal(t, 3000, conservative.Q4)

	// Optimistic keeps the negative rate as-is.
	optimistic := scenarios[1]
	assert.Equal(t, 3000, optimistic.Q1)
	assert.Equal(t, 1500, optimistic.Q2)
}

func TestIndicatorsRankTopAndBottomCampaigns(t *testing.T) {
	metrics := map[string]CampaignMetric{
		"Holiday Discounts":  {Revenue: 5000, ConversionRate: 12.5},
		"Electronics Blast":  {Revenue: 3000, ConversionRate: 8.4},
		"Fashion Flash Sale": {Revenue: 1000, ConversionRate: 4.9},
		"Back-to-School":     {Revenue: 200, ConversionRate: 1.3},
		"Prime Deals":        {Revenue: 0, ConversionRate: 0},
	}

	positive, risks := Indicators(metrics)

	require.Len(t, positive, 3)
	assert.Equal(t, "Holiday Discounts contributing $5,000 in revenue", positive[0])
	assert.Equal(t, "Electronics Blast contributing $3,000 in revenue", positive[1])
	assert.Equal(t, "Fashion Flash Sale contributing $1,000 in revenue", positive[2])

	require.Len(t, risks, 2)
	assert.Equal(t, "Low performance in Back-to-School (1.3% conversion rate)", risks[0])
	assert.Equal(t, "Low performance in Prime Deals (0.0% conversion rate)", risks[1])
}

func TestIndicatorsFallbackWithoutRevenue(t *testing.T) {
	positive, risks := Indicators(AggregateCampaigns(nil))

	assert.Equal(t, []string{"No significant revenue drivers yet"}, positive)
	// The full catalog is still ranked, so the two trailing campaigns are
	// named as risks even without activity.
	require.Len(t, risks, 2)
}

func TestIndicatorsFallbackWithEmptyMetrics(t *testing.T) {
	positive, risks := Indicators(map[string]CampaignMetric{})

	assert.Equal(t, []string{"No significant revenue drivers yet"}, positive)
	assert.Equal(t, []string{"Insufficient data to identify risks"}, risks)
}

func TestIndicatorsDeterministicOnTies(t *testing.T) {
	// All-equal revenue: stable sort keeps catalog order, so repeated calls
	// always produce the same strings.
	metrics := make(map[string]CampaignMetric, len(models.CampaignCatalog))
	for _, c := range models.CampaignCatalog {
		metrics[c.Name] = CampaignMetric{Revenue: 100, ConversionRate: 2}
	}

	first, firstRisks := Indicators(metrics)
	for i := 0; i < 10; i++ {
		positive, risks := Indicators(metrics)
		assert.Equal(t, first, positive)
		assert.Equal(t, firstRisks, risks)
	}

	assert.Equal(t, "Holiday Discounts contributing $100 in revenue", first[0])
	assert.Equal(t, "Low performance in Prime Deals (2.0% conversion rate)", firstRisks[1])
}
