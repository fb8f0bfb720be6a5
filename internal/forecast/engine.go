package forecast

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/storage"
)

// RevenueForecastResponse is the wire contract consumed by the dashboard.
// Field names are part of the contract.
type RevenueForecastResponse struct {
	ForecastData       []ForecastMonth `json:"forecastData"`
	Scenarios          []Scenario      `json:"scenarios"`
	PositiveIndicators []string        `json:"positiveIndicators"`
	RiskFactors        []string        `json:"riskFactors"`
}

// Engine turns a tenant's event feed into campaign metrics, a six-month
// forecast with confidence scores, three growth scenarios and narrative
// indicators. Each Generate call works on its own snapshot and accumulators;
// nothing is shared between concurrent requests and nothing is written back.
type Engine struct {
	store  storage.EventStore
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine constructs an Engine backed by the given event store.
func NewEngine(store storage.EventStore, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (e *Engine) WithNow(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Generate produces the full forecast response for a tenant. A store failure
// propagates unchanged (no retry, no partial result); everything after the
// fetch is pure computation.
func (e *Engine) Generate(ctx context.Context, tenantID string) (*RevenueForecastResponse, error) {
	events, err := e.store.ListAnalyticsEvents(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch events for tenant %s: %w", tenantID, err)
	}

	metrics := AggregateCampaigns(events)
	stats := ComputeSeriesStats(MonthlyRevenue(events))
	positive, risks := Indicators(metrics)

	e.logger.Debug("forecast generated",
		zap.String("tenant_id", tenantID),
		zap.Int("events", len(events)),
		zap.Float64("avg_monthly_revenue", stats.Average),
		zap.Float64("growth_rate", stats.GrowthRate),
	)

	return &RevenueForecastResponse{
		ForecastData:       BuildForecast(stats, e.now()),
		Scenarios:          BuildScenarios(stats),
		PositiveIndicators: positive,
		RiskFactors:        risks,
	}, nil
}

// CampaignMetrics exposes the per-campaign aggregation on its own, for the
// dashboard overview and future optimization surfaces.
func (e *Engine) CampaignMetrics(ctx context.Context, tenantID string) (map[string]CampaignMetric, error) {
	events, err := e.store.ListAnalyticsEvents(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch events for tenant %s: %w", tenantID, err)
	}
	return AggregateCampaigns(events), nil
}
