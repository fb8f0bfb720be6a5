package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSinglePayload(t *testing.T) {
	ev := Event{
		TenantID:   "tenant-1",
		Kind:       KindCommission,
		Commission: &CommissionData{Amount: 10},
	}
	assert.NoError(t, ev.Validate())

	ev.Click = &ClickData{Clicks: 1}
	assert.Error(t, ev.Validate(), "two payloads must be rejected")

	ev.Click = nil
	ev.Commission = nil
	assert.Error(t, ev.Validate(), "zero payloads must be rejected")
}

func TestValidatePayloadMustMatchKind(t *testing.T) {
	ev := Event{
		TenantID: "tenant-1",
		Kind:     KindPayout,
		Click:    &ClickData{Clicks: 5},
	}
	assert.Error(t, ev.Validate())

	ev = Event{
		TenantID: "tenant-1",
		Kind:     Kind("mystery"),
		Click:    &ClickData{Clicks: 5},
	}
	assert.Error(t, ev.Validate())
}

func TestJSONRoundTripFlattensPayload(t *testing.T) {
	ev := Event{
		ID:       "ev-1",
		TenantID: "tenant-1",
		Kind:     KindPayout,
		Network:  "Amazon Associates",
		Campaign: "Holiday Discounts",
		Product:  "Smartwatch",
		Date:     "2025-01-10T12:00:00Z",
		Payout:   &PayoutData{Amount: -250, Status: PayoutPending, PaymentMethodID: "2"},
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "payout", flat["event"])
	assert.Equal(t, -250.0, flat["amount"])
	assert.Equal(t, "Pending", flat["status"])
	assert.Equal(t, "2", flat["paymentMethodId"])
	assert.NotContains(t, flat, "clicks")

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ev, decoded)
	assert.NoError(t, decoded.Validate())
}

func TestUnmarshalIgnoresForeignFields(t *testing.T) {
	raw := []byte(`{"id":"ev-2","tenantId":"tenant-1","event":"click","network":"ShareASale",` +
		`"campaign":"Prime Deals","product":"Yoga Mat","date":"2025-01-10T12:00:00Z",` +
		`"clicks":42,"impressions":900}`)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	require.NotNil(t, ev.Click)
	assert.Equal(t, 42, ev.Click.Clicks)
	assert.Nil(t, ev.Impression, "impressions field must not attach to a click event")
	assert.NoError(t, ev.Validate())
}

func TestUnmarshalMissingPayloadFailsValidation(t *testing.T) {
	raw := []byte(`{"tenantId":"tenant-1","event":"commission","network":"ShareASale","date":"2025-01-10T12:00:00Z"}`)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Error(t, ev.Validate())
}

func TestCommissionAmount(t *testing.T) {
	commission := Event{Kind: KindCommission, Commission: &CommissionData{Amount: 12.5}}
	amount, ok := commission.CommissionAmount()
	assert.True(t, ok)
	assert.Equal(t, 12.5, amount)

	conversion := Event{Kind: KindConversion, Conversion: &ConversionData{CommissionAmount: 30}}
	amount, ok = conversion.CommissionAmount()
	assert.True(t, ok)
	assert.Equal(t, 30.0, amount)

	payout := Event{Kind: KindPayout, Payout: &PayoutData{Amount: -100}}
	_, ok = payout.CommissionAmount()
	assert.False(t, ok, "payouts never count as commission revenue")
}

func TestParseEventTime(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339 zulu", "2025-01-10T12:00:00Z", time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)},
		{"offset", "2025-01-10T12:00:00+00:00", time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)},
		{"zoneless treated as UTC", "2025-01-10T12:00:00.500000", time.Date(2025, 1, 10, 12, 0, 0, 500000000, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEventTime(tc.raw)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v", got)
		})
	}

	_, err := ParseEventTime("")
	assert.Error(t, err)
	_, err = ParseEventTime("January 10th 2025")
	assert.Error(t, err)
}
