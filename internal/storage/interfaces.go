package storage

import (
	"context"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// =============================================
// EVENT STORE
// =============================================

// EventStore defines operations for monetization event storage. Events are
// append-only; there is no update or delete surface.
type EventStore interface {
	// SaveEvent stores one event.
	SaveEvent(ctx context.Context, ev *models.Event) error

	// ListAnalyticsEvents returns the revenue-bearing feed for a tenant:
	// kinds {commission, conversion, click, payout}, ordered by timestamp
	// ascending. Impressions are excluded.
	ListAnalyticsEvents(ctx context.Context, tenantID string) ([]*models.Event, error)

	// ListEvents returns all events for a tenant, newest first, for raw
	// display.
	ListEvents(ctx context.Context, tenantID string) ([]*models.Event, error)
}

// =============================================
// NOTIFICATION REPOSITORY
// =============================================

// NotificationRepo defines operations for notification storage.
type NotificationRepo interface {
	Save(ctx context.Context, n *models.Notification) error

	// ListByTenant returns a tenant's notifications, newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]*models.Notification, error)

	// MarkRead flags the given notifications as read, scoped to the tenant,
	// and returns how many rows changed.
	MarkRead(ctx context.Context, tenantID string, ids []string) (int64, error)
}
