package forecast

import (
	"math"
	"time"
)

const (
	// forecastMonths is the fixed forward-looking horizon.
	forecastMonths = 6

	// seedFloor replaces a non-positive historical average so brand-new
	// tenants still get a plausible projection instead of flat zeros.
	seedFloor = 1000
)

// ForecastMonth is one projected month. Actual is reserved for later
// backfill by the reporting pipeline and is never set at generation time.
type ForecastMonth struct {
	Month      string   `json:"month"`
	Predicted  int      `json:"predicted"`
	Confidence int      `json:"confidence"`
	Actual     *float64 `json:"actual"`
}

// BuildForecast projects six months of revenue starting the first day of the
// month after now. Month one is seeded from the historical average (or the
// floor), not from an observed value; each following month compounds the
// growth rate on the previous rounded prediction. Confidence is constant
// across the horizon.
//
// A sufficiently negative growth rate can drive predictions to or below
// zero; no floor is applied to predicted values on purpose.
func BuildForecast(stats SeriesStats, now time.Time) []ForecastMonth {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)

	last := stats.Average
	if last <= 0 {
		last = seedFloor
	}

	confidence := int(math.Round(float64(stats.BaseConfidence) - stats.ConfidenceAdj))
	if confidence < 70 {
		confidence = 70
	}

	forecasts := make([]ForecastMonth, 0, forecastMonths)
	for i := 0; i < forecastMonths; i++ {
		date := start.AddDate(0, i, 0)
		predicted := int(math.Round(last * (1 + stats.GrowthRate/100)))

		forecasts = append(forecasts, ForecastMonth{
			Month:      date.Format("January 2006"),
			Predicted:  predicted,
			Confidence: confidence,
		})
		last = float64(predicted)
	}
	return forecasts
}
