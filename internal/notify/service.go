package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/models"
	"github.com/radiusdt/affiliate-hub/internal/storage"
)

// Service stores and serves per-tenant activity notifications.
type Service struct {
	repo   storage.NotificationRepo
	logger *zap.Logger
}

// NewService constructs a notification service backed by the given repo.
func NewService(repo storage.NotificationRepo, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists a notification.
func (s *Service) Record(ctx context.Context, n *models.Notification) error {
	if n.TenantID == "" {
		return errors.New("notification missing tenantId")
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

// List returns a tenant's notifications, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]*models.Notification, error) {
	notifications, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags the given notifications as read and returns the number of
// records actually modified.
func (s *Service) MarkRead(ctx context.Context, tenantID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	modified, err := s.repo.MarkRead(ctx, tenantID, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	s.logger.Debug("notifications marked read",
		zap.String("tenant_id", tenantID),
		zap.Int64("modified", modified),
	)
	return modified, nil
}
