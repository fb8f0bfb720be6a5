package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/models"
	"github.com/radiusdt/affiliate-hub/internal/storage"
)

const activityTTL = 48 * time.Hour

// Overview is the landing-page summary for one tenant.
type Overview struct {
	NetworksConnected int                    `json:"networks_connected"`
	TotalEarned       float64                `json:"total_earned"`
	PendingPayments   float64                `json:"pending_payments"`
	EventsToday       int64                  `json:"events_today"`
	RecentActivity    []*models.Notification `json:"recent_activity"`
}

// Service computes the dashboard overview from the event feed, with a Redis
// daily counter for cheap "events today" volume.
type Service struct {
	store         storage.EventStore
	notifications storage.NotificationRepo
	redis         *redis.Client
	logger        *zap.Logger
	now           func() time.Time
}

// NewService constructs a dashboard service. redis may be nil; the daily
// counter then degrades to zero.
func NewService(store storage.EventStore, notifications storage.NotificationRepo, rdb *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		store:         store,
		notifications: notifications,
		redis:         rdb,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func activityKey(tenantID string, day time.Time) string {
	return fmt.Sprintf("activity:%s:%s", tenantID, day.Format("2006-01-02"))
}

// RecordActivity bumps the tenant's daily event counter.
func (s *Service) RecordActivity(ctx context.Context, tenantID string) {
	if s.redis == nil {
		return
	}
	key := activityKey(tenantID, s.now())
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, activityTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("failed to record activity counter",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}

// Summarize builds the overview for a tenant. Store failures propagate; the
// Redis counter is best-effort.
func (s *Service) Summarize(ctx context.Context, tenantID string) (*Overview, error) {
	events, err := s.store.ListAnalyticsEvents(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch events for tenant %s: %w", tenantID, err)
	}

	overview := &Overview{RecentActivity: []*models.Notification{}}

	networks := make(map[string]bool)
	for _, ev := range events {
		if ev.Network != "" {
			networks[ev.Network] = true
		}
		if amount, ok := ev.CommissionAmount(); ok {
			overview.TotalEarned += amount
		}
		if ev.Kind == models.KindPayout && ev.Payout != nil && ev.Payout.Status == models.PayoutPending {
			overview.PendingPayments += math.Abs(ev.Payout.Amount)
		}
	}
	overview.NetworksConnected = len(networks)
	overview.TotalEarned = math.Round(overview.TotalEarned*100) / 100
	overview.PendingPayments = math.Round(overview.PendingPayments*100) / 100

	if s.redis != nil {
		count, err := s.redis.Get(ctx, activityKey(tenantID, s.now())).Int64()
		if err != nil && err != redis.Nil {
			s.logger.Debug("activity counter unavailable", zap.Error(err))
		}
		overview.EventsToday = count
	}

	recent, err := s.notifications.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch recent activity for tenant %s: %w", tenantID, err)
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	if recent != nil {
		overview.RecentActivity = recent
	}

	return overview, nil
}
