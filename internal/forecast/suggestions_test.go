package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSuggestionsRanksTopAndBottom(t *testing.T) {
	metrics := map[string]CampaignMetric{
		"Holiday Discounts": {Revenue: 5000, Clicks: 200, Commissions: 40, ConversionRate: 20},
		"Prime Deals":       {Revenue: 100, Clicks: 300, Commissions: 2, ConversionRate: 0.7},
		"Electronics Blast": {Revenue: 900, Clicks: 50, Commissions: 9, ConversionRate: 18},
	}

	suggestions := BuildSuggestions(metrics)
	require.Len(t, suggestions, 3)

	assert.Equal(t, "campaign", suggestions[0].Type)
	assert.Contains(t, suggestions[0].Title, "Holiday Discounts")
	assert.Equal(t, 1250.0, suggestions[0].EstimatedRevenue)
	assert.Equal(t, "high", suggestions[0].Impact)

	assert.Equal(t, "creative", suggestions[1].Type)
	assert.Contains(t, suggestions[1].Title, "Prime Deals")
	assert.Contains(t, suggestions[1].Description, "0.7%")
	assert.Equal(t, 600.0, suggestions[1].EstimatedRevenue)

	assert.Equal(t, "audience", suggestions[2].Type)
	assert.Equal(t, 300.0, suggestions[2].EstimatedRevenue)
}

func TestBuildSuggestionsEmptyMetrics(t *testing.T) {
	suggestions := BuildSuggestions(map[string]CampaignMetric{})
	require.Len(t, suggestions, 3)

	// Catalog endpoints stand in when no campaign has data yet.
	assert.Contains(t, suggestions[0].Title, "Holiday Discounts")
	assert.Contains(t, suggestions[1].Title, "Prime Deals")
	assert.Zero(t, suggestions[0].EstimatedRevenue)
}

func TestBuildSuggestionsDeterministic(t *testing.T) {
	metrics := map[string]CampaignMetric{
		"Holiday Discounts": {Revenue: 1000},
		"Electronics Blast": {Revenue: 1000},
	}

	first := BuildSuggestions(metrics)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildSuggestions(metrics))
	}
	// Revenue tie resolves in catalog order.
	assert.Contains(t, first[0].Title, "Holiday Discounts")
}
