package forecast

import (
	"math"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// CampaignMetric aggregates revenue and traffic for a single catalog
// campaign. Recomputed per request; never persisted.
type CampaignMetric struct {
	Revenue        float64 `json:"revenue"`
	Commissions    int     `json:"commissions"`
	Clicks         int     `json:"clicks"`
	ConversionRate float64 `json:"conversionRate"`
}

// AggregateCampaigns reduces an event feed into per-campaign metrics in a
// single linear pass. Every campaign in the catalog gets exactly one entry,
// zero-valued when it saw no activity. Events naming a campaign outside the
// catalog are skipped: catalog membership is the sole admission test.
func AggregateCampaigns(events []*models.Event) map[string]CampaignMetric {
	type accumulator struct {
		revenue     float64
		commissions int
		clicks      int
	}

	acc := make(map[string]*accumulator, len(models.CampaignCatalog))
	for _, c := range models.CampaignCatalog {
		acc[c.Name] = &accumulator{}
	}

	for _, ev := range events {
		a, ok := acc[ev.Campaign]
		if !ok {
			continue
		}

		if amount, ok := ev.CommissionAmount(); ok {
			a.revenue += amount
			a.commissions++
		} else if ev.Kind == models.KindClick && ev.Click != nil {
			a.clicks += ev.Click.Clicks
		}
	}

	metrics := make(map[string]CampaignMetric, len(acc))
	for name, a := range acc {
		var rate float64
		if a.clicks > 0 {
			rate = float64(a.commissions) / float64(a.clicks) * 100
		}
		metrics[name] = CampaignMetric{
			Revenue:        roundTo2(a.revenue),
			Commissions:    a.commissions,
			Clicks:         a.clicks,
			ConversionRate: roundTo2(rate),
		}
	}
	return metrics
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
