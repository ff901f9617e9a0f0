// Package domain defines multi-touch revenue attribution across campaigns.
//
// Touchpoints are ranked per customer by timestamp; ties break on record
// order as supplied, which the warehouse reader keeps stable. Revenue is a
// per-customer pool of completed orders placed inside the attribution window
// of any touchpoint, deduplicated per order, never summed once per touch.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

// DefaultWindowDays bounds how long after a touchpoint an order can still be
// credited to it.
const DefaultWindowDays = 90

type Request struct {
	Touchpoints []datasetdomain.Touchpoint
	Orders      []datasetdomain.Order
	Campaigns   []datasetdomain.Campaign
	WindowDays  int
}

func (r Request) Validate() error {
	if r.WindowDays < 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "attributionWindowDays", Reason: "cannot be negative"}
	}
	return nil
}

// CampaignAttribution is the attribution and performance rollup for one
// campaign. ROI is computed against multi-touch revenue and is nil when cost
// is zero; CTR is nil without impressions, ConversionRate nil without clicks.
type CampaignAttribution struct {
	CampaignID   snowflake.ID
	CampaignName string
	Channel      string

	FirstTouchRevenue   float64
	FirstTouchCustomers int
	LastTouchRevenue    float64
	LastTouchCustomers  int
	MultiTouchRevenue   float64

	Cost        float64
	Impressions int64
	Clicks      int64
	Conversions int64

	ROI            *float64
	ClickThrough   *float64
	ConversionRate *float64
}

// CustomerRevenue reports the deduplicated attributable revenue pool for one
// customer inside the window.
type CustomerRevenue struct {
	CustomerID snowflake.ID
	Revenue    float64
	Orders     int
	FirstTouch time.Time
	LastTouch  time.Time
}

// Result pairs per-campaign attribution with the per-customer revenue pools
// it was derived from.
type Result struct {
	Campaigns []CampaignAttribution
	Customers []CustomerRevenue
}

type Service interface {
	Attribute(ctx context.Context, req Request) (Result, error)
}
