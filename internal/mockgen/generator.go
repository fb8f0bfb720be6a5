package mockgen

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radiusdt/affiliate-hub/internal/models"
)

// kindPool mirrors the live feed mix: impressions dominate, clicks follow,
// revenue events are rare.
var kindPool = []models.Kind{
	models.KindImpression, models.KindImpression, models.KindImpression,
	models.KindImpression, models.KindImpression,
	models.KindClick, models.KindClick,
	models.KindConversion, models.KindCommission, models.KindPayout,
}

var payoutStatuses = []string{models.PayoutCompleted, models.PayoutPending, models.PayoutFailed}

// Generator produces synthetic monetization events for demo tenants. It is
// the only place randomness lives; everything downstream of the stored
// events is deterministic.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator seeded from the given value.
func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (g *Generator) WithNow(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Event synthesizes one event for the tenant and network, drawing campaign
// and product from the fixed catalogs by weight.
func (g *Generator) Event(tenantID, network string) *models.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	kind := kindPool[g.rng.Intn(len(kindPool))]

	ev := &models.Event{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Kind:     kind,
		Network:  network,
		Campaign: g.weightedPick(models.CampaignCatalog),
		Product:  g.weightedPick(models.ProductCatalog),
		Date:     g.now().Format(time.RFC3339Nano),
	}

	switch kind {
	case models.KindCommission:
		ev.Commission = &models.CommissionData{
			Amount:  roundCents(g.uniform(5, 55)),
			OrderID: g.orderID(network),
		}
	case models.KindConversion:
		ev.Conversion = &models.ConversionData{
			CommissionAmount: roundCents(g.uniform(10, 80)),
			OrderID:          g.orderID(network),
		}
	case models.KindClick:
		ev.Click = &models.ClickData{Clicks: 1 + g.rng.Intn(100)}
	case models.KindImpression:
		ev.Impression = &models.ImpressionData{Impressions: 100 + g.rng.Intn(901)}
	case models.KindPayout:
		ev.Payout = &models.PayoutData{
			Amount:          -roundCents(g.uniform(100, 500)),
			Status:          payoutStatuses[g.rng.Intn(len(payoutStatuses))],
			PaymentMethodID: models.PaymentMethodIDs[g.rng.Intn(len(models.PaymentMethodIDs))],
		}
	}

	return ev
}

// weightedPick selects an entry name proportionally to its weight.
func (g *Generator) weightedPick(pool []models.CatalogEntry) string {
	var total int
	for _, item := range pool {
		total += item.Weight
	}

	r := g.rng.Float64() * float64(total)
	for _, item := range pool {
		if r < float64(item.Weight) {
			return item.Name
		}
		r -= float64(item.Weight)
	}
	return pool[len(pool)-1].Name
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) orderID(network string) string {
	prefix := strings.ToUpper(network)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s%d", prefix, g.rng.Intn(1000000))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Message renders the human-readable activity line for an event.
func Message(ev *models.Event) string {
	switch {
	case ev.Kind == models.KindCommission && ev.Commission != nil:
		return fmt.Sprintf("New commission of $%s from %s for '%s' (Campaign: %s)",
			formatAmount(ev.Commission.Amount), ev.Network, ev.Product, ev.Campaign)
	case ev.Kind == models.KindConversion && ev.Conversion != nil:
		return fmt.Sprintf("New conversion commission of $%s from %s for '%s' (Campaign: %s)",
			formatAmount(ev.Conversion.CommissionAmount), ev.Network, ev.Product, ev.Campaign)
	case ev.Kind == models.KindPayout && ev.Payout != nil:
		return fmt.Sprintf("Payout of $%s completed from %s",
			formatAmount(-ev.Payout.Amount), ev.Network)
	case ev.Kind == models.KindClick && ev.Click != nil:
		return fmt.Sprintf("Traffic spike: %d clicks on '%s' (Campaign: %s) from %s",
			ev.Click.Clicks, ev.Product, ev.Campaign, ev.Network)
	case ev.Kind == models.KindImpression && ev.Impression != nil:
		return fmt.Sprintf("Ad visibility: %d impressions recorded for '%s' (Campaign: %s) via %s",
			ev.Impression.Impressions, ev.Product, ev.Campaign, ev.Network)
	}
	return fmt.Sprintf("Unknown event from %s", ev.Network)
}

// Notification builds the stored notification record for an event.
func Notification(ev *models.Event, userID string, at time.Time) *models.Notification {
	n := &models.Notification{
		ID:        uuid.NewString(),
		TenantID:  ev.TenantID,
		UserID:    userID,
		Message:   Message(ev),
		Type:      ev.Kind,
		Network:   ev.Network,
		CreatedAt: at,
	}

	switch {
	case ev.Commission != nil:
		n.Amount = &ev.Commission.Amount
	case ev.Conversion != nil:
		n.Amount = &ev.Conversion.CommissionAmount
	case ev.Click != nil:
		n.Clicks = &ev.Click.Clicks
	case ev.Payout != nil:
		n.Amount = &ev.Payout.Amount
		n.Status = ev.Payout.Status
		n.PaymentMethodID = ev.Payout.PaymentMethodID
	}
	return n
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
