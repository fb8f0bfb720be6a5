package models

import "time"

// Notification is a stored, per-tenant activity message derived from an
// incoming event.
type Notification struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenantId"`
	UserID          string    `json:"user_id,omitempty"`
	Message         string    `json:"message"`
	Type            Kind      `json:"type"`
	Network         string    `json:"network"`
	Amount          *float64  `json:"amount,omitempty"`
	Clicks          *int      `json:"clicks,omitempty"`
	Status          string    `json:"status,omitempty"`
	PaymentMethodID string    `json:"paymentMethodId,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Read            bool      `json:"read"`
}
