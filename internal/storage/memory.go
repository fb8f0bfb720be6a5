package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// InMemoryEventStore provides in-memory storage for events. Used when no
// database is configured and as the backing store in tests.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]*models.Event // tenant_id -> events in insert order
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]*models.Event),
	}
}

func (s *InMemoryEventStore) SaveEvent(ctx context.Context, ev *models.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.TenantID] = append(s.events[ev.TenantID], ev)
	return nil
}

func (s *InMemoryEventStore) ListAnalyticsEvents(ctx context.Context, tenantID string) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analytic := make(map[models.Kind]bool, len(models.AnalyticsKinds))
	for _, k := range models.AnalyticsKinds {
		analytic[k] = true
	}

	result := make([]*models.Event, 0)
	for _, ev := range s.events[tenantID] {
		if analytic[ev.Kind] {
			result = append(result, ev)
		}
	}

	// ISO-8601 strings order chronologically under lexicographic sort.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result, nil
}

func (s *InMemoryEventStore) ListEvents(ctx context.Context, tenantID string) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Event, 0, len(s.events[tenantID]))
	result = append(result, s.events[tenantID]...)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

// InMemoryNotificationRepo provides in-memory notification storage.
type InMemoryNotificationRepo struct {
	mu            sync.RWMutex
	notifications map[string][]*models.Notification // tenant_id -> notifications
}

// NewInMemoryNotificationRepo creates a new in-memory notification repo.
func NewInMemoryNotificationRepo() *InMemoryNotificationRepo {
	return &InMemoryNotificationRepo{
		notifications: make(map[string][]*models.Notification),
	}
}

func (r *InMemoryNotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[n.TenantID] = append(r.notifications[n.TenantID], n)
	return nil
}

func (r *InMemoryNotificationRepo) ListByTenant(ctx context.Context, tenantID string) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Notification, 0, len(r.notifications[tenantID]))
	result = append(result, r.notifications[tenantID]...)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryNotificationRepo) MarkRead(ctx context.Context, tenantID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var modified int64
	for _, n := range r.notifications[tenantID] {
		if wanted[n.ID] && !n.Read {
			n.Read = true
			modified++
		}
	}
	return modified, nil
}
