package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// PostgresNotificationRepo implements NotificationRepo using PostgreSQL.
type PostgresNotificationRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresNotificationRepo creates a new PostgreSQL-backed notification repo.
func NewPostgresNotificationRepo(pool *pgxpool.Pool) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{pool: pool}
}

func (r *PostgresNotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications
			(id, tenant_id, user_id, message, type, network, amount, clicks,
			 status, payment_method_id, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`, n.ID, n.TenantID, nullString(n.UserID), n.Message, string(n.Type), n.Network,
		n.Amount, n.Clicks, nullString(n.Status), nullString(n.PaymentMethodID), n.CreatedAt, n.Read)

	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepo) ListByTenant(ctx context.Context, tenantID string) ([]*models.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, message, type, network, amount, clicks,
		       status, payment_method_id, created_at, read
		FROM notifications
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var (
			n                       models.Notification
			kind                    string
			userID, status, payment *string
		)
		if err := rows.Scan(&n.ID, &n.TenantID, &userID, &n.Message, &kind, &n.Network,
			&n.Amount, &n.Clicks, &status, &payment, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = models.Kind(kind)
		if userID != nil {
			n.UserID = *userID
		}
		if status != nil {
			n.Status = *status
		}
		if payment != nil {
			n.PaymentMethodID = *payment
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return notifications, nil
}

func (r *PostgresNotificationRepo) MarkRead(ctx context.Context, tenantID string, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE tenant_id = $1 AND id = ANY($2) AND read = FALSE
	`, tenantID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
