package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the affiliate hub.
type Metrics struct {
	// Event metrics
	EventsIngested *prometheus.CounterVec
	EventsRejected *prometheus.CounterVec

	// Forecast metrics
	ForecastRequests *prometheus.CounterVec
	ForecastLatency  *prometheus.HistogramVec

	// Notification metrics
	NotificationsCreated prometheus.Counter
	NotificationsRead    prometheus.Counter

	// Stream metrics
	StreamSessions      prometheus.Gauge
	MockEventsGenerated *prometheus.CounterVec

	// System metrics
	DBConnections *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_ingested_total",
				Help:      "Total number of events stored",
			},
			[]string{"kind", "network"},
		),
		EventsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_rejected_total",
				Help:      "Events rejected before storage",
			},
			[]string{"reason"},
		),

		ForecastRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forecast_requests_total",
				Help:      "Revenue forecast requests served",
			},
			[]string{"status"},
		),
		ForecastLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_latency_seconds",
				Help:      "Forecast generation latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"status"},
		),

		NotificationsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_created_total",
				Help:      "Notifications written to the activity feed",
			},
		),
		NotificationsRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_read_total",
				Help:      "Notifications marked as read",
			},
		),

		StreamSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stream_sessions",
				Help:      "Open websocket stream sessions",
			},
		),
		MockEventsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mock_events_generated_total",
				Help:      "Synthetic events pushed to stream sessions",
			},
			[]string{"kind"},
		),

		DBConnections: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool stats",
			},
			[]string{"state"}, // idle, in_use, total
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint", "ip"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEventIngested records a stored event.
func (m *Metrics) RecordEventIngested(kind, network string) {
	m.EventsIngested.WithLabelValues(kind, network).Inc()
}

// RecordEventRejected records a rejected event.
func (m *Metrics) RecordEventRejected(reason string) {
	m.EventsRejected.WithLabelValues(reason).Inc()
}

// RecordForecast records a forecast request outcome and its latency.
func (m *Metrics) RecordForecast(status string, latency time.Duration) {
	m.ForecastRequests.WithLabelValues(status).Inc()
	m.ForecastLatency.WithLabelValues(status).Observe(latency.Seconds())
}

// RecordNotificationCreated records a new activity notification.
func (m *Metrics) RecordNotificationCreated() {
	m.NotificationsCreated.Inc()
}

// RecordNotificationsRead records notifications flagged as read.
func (m *Metrics) RecordNotificationsRead(count int64) {
	m.NotificationsRead.Add(float64(count))
}

// RecordMockEvent records a synthetic event pushed to a stream.
func (m *Metrics) RecordMockEvent(kind string) {
	m.MockEventsGenerated.WithLabelValues(kind).Inc()
}

// StreamOpened bumps the open session gauge.
func (m *Metrics) StreamOpened() {
	m.StreamSessions.Inc()
}

// StreamClosed drops the open session gauge.
func (m *Metrics) StreamClosed() {
	m.StreamSessions.Dec()
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint, ip string) {
	m.RateLimitHits.WithLabelValues(endpoint, ip).Inc()
}
