package models

// CatalogEntry is one named pool member with a relative selection weight.
type CatalogEntry struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// CampaignCatalog is the fixed pool of named campaigns. It is shared by the
// mock event generator and the metrics aggregator, and must be treated as
// read-only: the aggregator keys its output off these names, one entry per
// campaign even with zero activity.
var CampaignCatalog = []CatalogEntry{
	{Name: "Holiday Discounts", Weight: 30},
	{Name: "Electronics Blast", Weight: 25},
	{Name: "Fashion Flash Sale", Weight: 20},
	{Name: "Back-to-School", Weight: 15},
	{Name: "Prime Deals", Weight: 10},
}

// ProductCatalog is the fixed pool of named products. Informational only;
// products never participate in aggregation.
var ProductCatalog = []CatalogEntry{
	{Name: "Wireless Earbuds", Weight: 25},
	{Name: "Laptop Stand", Weight: 20},
	{Name: "Gaming Mouse", Weight: 15},
	{Name: "Yoga Mat", Weight: 15},
	{Name: "Smartwatch", Weight: 15},
	{Name: "LED Desk Lamp", Weight: 10},
}

// PaymentMethodIDs are the payout destinations the mock generator rotates
// through.
var PaymentMethodIDs = []string{"1", "2", "3", "4"}

// IsCatalogCampaign reports whether name belongs to the campaign catalog.
func IsCatalogCampaign(name string) bool {
	for _, c := range CampaignCatalog {
		if c.Name == name {
			return true
		}
	}
	return false
}
