package forecast

import (
	"context"
	"fmt"
	"sort"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// OptimizationSuggestion is one actionable recommendation derived from the
// campaign ranking.
type OptimizationSuggestion struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Impact           string  `json:"impact"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	Effort           string  `json:"effort"`
}

// BuildSuggestions derives exactly three suggestions from the campaign
// ranking: scale the leader, fix the laggard's funnel, reallocate the rest.
// Output is deterministic for a given metrics map.
func BuildSuggestions(metrics map[string]CampaignMetric) []OptimizationSuggestion {
	type ranked struct {
		name   string
		metric CampaignMetric
	}

	campaigns := make([]ranked, 0, len(models.CampaignCatalog))
	var totalRevenue float64
	for _, c := range models.CampaignCatalog {
		if m, ok := metrics[c.Name]; ok {
			campaigns = append(campaigns, ranked{name: c.Name, metric: m})
			totalRevenue += m.Revenue
		}
	}
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].metric.Revenue > campaigns[j].metric.Revenue
	})

	top := ranked{name: models.CampaignCatalog[0].Name}
	bottom := ranked{name: models.CampaignCatalog[len(models.CampaignCatalog)-1].Name}
	if len(campaigns) > 0 {
		top = campaigns[0]
		bottom = campaigns[len(campaigns)-1]
	}

	return []OptimizationSuggestion{
		{
			ID:    "1",
			Type:  "campaign",
			Title: fmt.Sprintf("Increase budget for %s", top.name),
			Description: fmt.Sprintf(
				"%s is your strongest earner. Raising its budget captures demand you are currently leaving on the table.",
				top.name),
			Impact:           "high",
			EstimatedRevenue: roundTo2(top.metric.Revenue * 0.25),
			Effort:           "low",
		},
		{
			ID:    "2",
			Type:  "creative",
			Title: fmt.Sprintf("Refresh creatives for %s", bottom.name),
			Description: fmt.Sprintf(
				"%s converts at %.1f%%. New creatives and landing copy are the cheapest lever against a weak funnel.",
				bottom.name, bottom.metric.ConversionRate),
			Impact:           "medium",
			EstimatedRevenue: roundTo2(totalRevenue * 0.10),
			Effort:           "medium",
		},
		{
			ID:    "3",
			Type:  "audience",
			Title: "Rebalance spend toward proven audiences",
			Description: "Shift budget from flat campaigns into the audiences already driving commissions " +
				"before expanding into new networks.",
			Impact:           "medium",
			EstimatedRevenue: roundTo2(totalRevenue * 0.05),
			Effort:           "high",
		},
	}
}

// Suggestions produces the optimization suggestions for a tenant.
func (e *Engine) Suggestions(ctx context.Context, tenantID string) ([]OptimizationSuggestion, error) {
	metrics, err := e.CampaignMetrics(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return BuildSuggestions(metrics), nil
}
