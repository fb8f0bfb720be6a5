package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies one of the five recognized monetization/traffic events.
type Kind string

const (
	KindImpression Kind = "impression"
	KindClick      Kind = "click"
	KindConversion Kind = "conversion"
	KindCommission Kind = "commission"
	KindPayout     Kind = "payout"
)

// AnalyticsKinds are the kinds that carry revenue signal. Impressions are
// volume noise and are fetched separately for raw display only.
var AnalyticsKinds = []Kind{KindCommission, KindConversion, KindClick, KindPayout}

// Payout delivery statuses.
const (
	PayoutCompleted = "Completed"
	PayoutPending   = "Pending"
	PayoutFailed    = "Failed"
)

// CommissionData is the payload of a commission event.
type CommissionData struct {
	Amount  float64 `json:"amount"`
	OrderID string  `json:"orderId"`
}

// ConversionData is the payload of a conversion event. CommissionAmount is
// the same semantic quantity as CommissionData.Amount under a different kind.
type ConversionData struct {
	CommissionAmount float64 `json:"commissionAmount"`
	OrderID          string  `json:"orderId"`
}

// ClickData is the payload of a click event.
type ClickData struct {
	Clicks int `json:"clicks"`
}

// ImpressionData is the payload of an impression event.
type ImpressionData struct {
	Impressions int `json:"impressions"`
}

// PayoutData is the payload of a payout event. Amount is always negative
// to denote an outflow.
type PayoutData struct {
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// Event is one immutable monetization or traffic occurrence. Exactly one of
// the kind payloads is set, matching Kind; the others stay nil. Events are
// append-only and never mutated after ingest.
type Event struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Kind     Kind   `json:"event"`
	Network  string `json:"network"`
	Campaign string `json:"campaign"`
	Product  string `json:"product"`

	// Date is the raw ISO-8601 timestamp as received. It is parsed lazily
	// at aggregation time; unparseable values are skipped, not rejected.
	Date string `json:"date"`

	Commission *CommissionData `json:"-"`
	Conversion *ConversionData `json:"-"`
	Click      *ClickData      `json:"-"`
	Impression *ImpressionData `json:"-"`
	Payout     *PayoutData     `json:"-"`
}

// Validate checks the single-payload invariant.
func (e *Event) Validate() error {
	if e.TenantID == "" {
		return errors.New("event missing tenantId")
	}

	var set int
	for _, present := range []bool{
		e.Commission != nil, e.Conversion != nil, e.Click != nil,
		e.Impression != nil, e.Payout != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("event must carry exactly one payload, has %d", set)
	}

	var matches bool
	switch e.Kind {
	case KindCommission:
		matches = e.Commission != nil
	case KindConversion:
		matches = e.Conversion != nil
	case KindClick:
		matches = e.Click != nil
	case KindImpression:
		matches = e.Impression != nil
	case KindPayout:
		matches = e.Payout != nil
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if !matches {
		return fmt.Errorf("payload does not match kind %q", e.Kind)
	}
	return nil
}

// CommissionAmount returns the commission-semantic amount for commission and
// conversion events. The second return is false for every other kind.
func (e *Event) CommissionAmount() (float64, bool) {
	switch e.Kind {
	case KindCommission:
		if e.Commission != nil {
			return e.Commission.Amount, true
		}
	case KindConversion:
		if e.Conversion != nil {
			return e.Conversion.CommissionAmount, true
		}
	}
	return 0, false
}

// ParseEventTime parses an ISO-8601 timestamp, normalizing a trailing "Z" and
// accepting zone-less local timestamps as emitted by some feed sources.
func ParseEventTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// No zone designator: treat as UTC.
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// UnmarshalJSON rebuilds the kind payload from the flattened wire shape.
// Fields that do not belong to the declared kind are ignored.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               string   `json:"id"`
		TenantID         string   `json:"tenantId"`
		Kind             Kind     `json:"event"`
		Network          string   `json:"network"`
		Campaign         string   `json:"campaign"`
		Product          string   `json:"product"`
		Date             string   `json:"date"`
		Amount           *float64 `json:"amount"`
		CommissionAmount *float64 `json:"commissionAmount"`
		OrderID          string   `json:"orderId"`
		Clicks           *int     `json:"clicks"`
		Impressions      *int     `json:"impressions"`
		Status           string   `json:"status"`
		PaymentMethodID  string   `json:"paymentMethodId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Event{
		ID:       raw.ID,
		TenantID: raw.TenantID,
		Kind:     raw.Kind,
		Network:  raw.Network,
		Campaign: raw.Campaign,
		Product:  raw.Product,
		Date:     raw.Date,
	}

	switch raw.Kind {
	case KindCommission:
		if raw.Amount != nil {
			e.Commission = &CommissionData{Amount: *raw.Amount, OrderID: raw.OrderID}
		}
	case KindConversion:
		if raw.CommissionAmount != nil {
			e.Conversion = &ConversionData{CommissionAmount: *raw.CommissionAmount, OrderID: raw.OrderID}
		}
	case KindClick:
		if raw.Clicks != nil {
			e.Click = &ClickData{Clicks: *raw.Clicks}
		}
	case KindImpression:
		if raw.Impressions != nil {
			e.Impression = &ImpressionData{Impressions: *raw.Impressions}
		}
	case KindPayout:
		if raw.Amount != nil {
			e.Payout = &PayoutData{Amount: *raw.Amount, Status: raw.Status, PaymentMethodID: raw.PaymentMethodID}
		}
	}
	return nil
}

// MarshalJSON flattens the kind payload into the event object, matching the
// wire shape consumed by the dashboard.
func (e Event) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":       e.ID,
		"tenantId": e.TenantID,
		"event":    e.Kind,
		"network":  e.Network,
		"campaign": e.Campaign,
		"product":  e.Product,
		"date":     e.Date,
	}
	switch {
	case e.Commission != nil:
		out["amount"] = e.Commission.Amount
		out["orderId"] = e.Commission.OrderID
	case e.Conversion != nil:
		out["commissionAmount"] = e.Conversion.CommissionAmount
		out["orderId"] = e.Conversion.OrderID
	case e.Click != nil:
		out["clicks"] = e.Click.Clicks
	case e.Impression != nil:
		out["impressions"] = e.Impression.Impressions
	case e.Payout != nil:
		out["amount"] = e.Payout.Amount
		out["status"] = e.Payout.Status
		out["paymentMethodId"] = e.Payout.PaymentMethodID
	}
	return json.Marshal(out)
}
