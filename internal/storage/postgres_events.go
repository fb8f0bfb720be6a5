package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// PostgresEventStore implements EventStore using PostgreSQL. Events live in a
// single wide table with kind-dependent nullable columns; rows are rebuilt
// into the tagged Event union on read.
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a new PostgreSQL-backed event store.
func NewPostgresEventStore(pool *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

const eventColumns = `
	id, tenant_id, kind, network, campaign, product, event_date,
	amount, commission_amount, clicks, impressions, status, payment_method_id, order_id`

// SaveEvent stores one event.
func (s *PostgresEventStore) SaveEvent(ctx context.Context, ev *models.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	var (
		amount           *float64
		commissionAmount *float64
		clicks           *int
		impressions      *int
		status           *string
		paymentMethodID  *string
		orderID          *string
	)

	switch {
	case ev.Commission != nil:
		amount = &ev.Commission.Amount
		orderID = &ev.Commission.OrderID
	case ev.Conversion != nil:
		commissionAmount = &ev.Conversion.CommissionAmount
		orderID = &ev.Conversion.OrderID
	case ev.Click != nil:
		clicks = &ev.Click.Clicks
	case ev.Impression != nil:
		impressions = &ev.Impression.Impressions
	case ev.Payout != nil:
		amount = &ev.Payout.Amount
		status = &ev.Payout.Status
		paymentMethodID = &ev.Payout.PaymentMethodID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`, ev.ID, ev.TenantID, string(ev.Kind), ev.Network, ev.Campaign, ev.Product, ev.Date,
		amount, commissionAmount, clicks, impressions, status, paymentMethodID, orderID)

	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// ListAnalyticsEvents returns the revenue-bearing feed for a tenant, oldest
// first. ISO-8601 dates sort chronologically as text.
func (s *PostgresEventStore) ListAnalyticsEvents(ctx context.Context, tenantID string) ([]*models.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE tenant_id = $1
		  AND kind IN ('commission', 'conversion', 'click', 'payout')
		ORDER BY event_date ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListEvents returns all events for a tenant, newest first.
func (s *PostgresEventStore) ListEvents(ctx context.Context, tenantID string) ([]*models.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE tenant_id = $1
		ORDER BY event_date DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		var (
			ev               models.Event
			kind             string
			amount           *float64
			commissionAmount *float64
			clicks           *int
			impressions      *int
			status           *string
			paymentMethodID  *string
			orderID          *string
		)

		if err := rows.Scan(&ev.ID, &ev.TenantID, &kind, &ev.Network, &ev.Campaign, &ev.Product, &ev.Date,
			&amount, &commissionAmount, &clicks, &impressions, &status, &paymentMethodID, &orderID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.Kind = models.Kind(kind)
		switch ev.Kind {
		case models.KindCommission:
			ev.Commission = &models.CommissionData{}
			if amount != nil {
				ev.Commission.Amount = *amount
			}
			if orderID != nil {
				ev.Commission.OrderID = *orderID
			}
		case models.KindConversion:
			ev.Conversion = &models.ConversionData{}
			if commissionAmount != nil {
				ev.Conversion.CommissionAmount = *commissionAmount
			}
			if orderID != nil {
				ev.Conversion.OrderID = *orderID
			}
		case models.KindClick:
			ev.Click = &models.ClickData{}
			if clicks != nil {
				ev.Click.Clicks = *clicks
			}
		case models.KindImpression:
			ev.Impression = &models.ImpressionData{}
			if impressions != nil {
				ev.Impression.Impressions = *impressions
			}
		case models.KindPayout:
			ev.Payout = &models.PayoutData{}
			if amount != nil {
				ev.Payout.Amount = *amount
			}
			if status != nil {
				ev.Payout.Status = *status
			}
			if paymentMethodID != nil {
				ev.Payout.PaymentMethodID = *paymentMethodID
			}
		}

		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}
