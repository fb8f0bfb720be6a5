package forecast

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// Scenario is one named what-if growth projection over four quarters.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Q1          int    `json:"q1"`
	Q2          int    `json:"q2"`
	Q3          int    `json:"q3"`
	Q4          int    `json:"q4"`
	Total       int    `json:"total"`
	Probability int    `json:"probability"`
}

// Fallback indicator strings for tenants without ranked campaign data.
const (
	noDriversMessage        = "No significant revenue drivers yet"
	insufficientRiskMessage = "Insufficient data to identify risks"
)

var currencyPrinter = message.NewPrinter(language.English)

// BuildScenarios derives the three fixed scenarios from a single growth
// rate at different multipliers. Quarter i is the monthly-compounded value
// times 3 — an approximation of a quarter, not a true 3-month sum.
// Descriptions and probabilities are fixed regardless of the numbers.
func BuildScenarios(stats SeriesStats) []Scenario {
	base := stats.Average
	if base <= 0 {
		base = seedFloor
	}

	variants := []struct {
		name        string
		description string
		rate        float64
		probability int
	}{
		{"Conservative", "Based on current performance with minimal growth", math.Max(0, stats.GrowthRate*0.5), 85},
		{"Optimistic", "Assuming successful implementation of optimization suggestions", stats.GrowthRate, 65},
		{"Aggressive", "With new market expansion and increased ad spend", stats.GrowthRate * 2.0, 35},
	}

	scenarios := make([]Scenario, 0, len(variants))
	for _, v := range variants {
		var quarters [4]int
		total := 0
		for i := 0; i < 4; i++ {
			monthly := base * math.Pow(1+v.rate/100, float64(i))
			quarters[i] = int(math.Round(monthly * 3))
			total += quarters[i]
		}
		scenarios = append(scenarios, Scenario{
			Name:        v.name,
			Description: v.description,
			Q1:          quarters[0],
			Q2:          quarters[1],
			Q3:          quarters[2],
			Q4:          quarters[3],
			Total:       total,
			Probability: v.probability,
		})
	}
	return scenarios
}

// Indicators ranks catalog campaigns by revenue and renders the narrative
// strings: the top three as positive drivers, the bottom two as risks. Risks
// are only named when more than two campaigns exist, so top performers are
// never also risk-labelled. The sort is stable with catalog order as the
// tiebreak, keeping output deterministic.
func Indicators(metrics map[string]CampaignMetric) (positive, risks []string) {
	type ranked struct {
		name   string
		metric CampaignMetric
	}

	campaigns := make([]ranked, 0, len(models.CampaignCatalog))
	for _, c := range models.CampaignCatalog {
		if m, ok := metrics[c.Name]; ok {
			campaigns = append(campaigns, ranked{name: c.Name, metric: m})
		}
	}
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].metric.Revenue > campaigns[j].metric.Revenue
	})

	for i := 0; i < len(campaigns) && len(positive) < 3; i++ {
		// A campaign with no revenue is not a driver.
		if campaigns[i].metric.Revenue <= 0 {
			break
		}
		positive = append(positive, currencyPrinter.Sprintf(
			"%s contributing $%.0f in revenue", campaigns[i].name, campaigns[i].metric.Revenue))
	}
	if len(positive) == 0 {
		positive = []string{noDriversMessage}
	}

	if len(campaigns) > 2 {
		// Bottom two, second-worst first (keeps descending order).
		for _, c := range campaigns[len(campaigns)-2:] {
			risks = append(risks, fmt.Sprintf(
				"Low performance in %s (%.1f%% conversion rate)", c.name, c.metric.ConversionRate))
		}
	}
	if len(risks) == 0 {
		risks = []string{insufficientRiskMessage}
	}

	return positive, risks
}
