// Package domain contains the warehouse fact records consumed by the metric
// calculators. The calculators never mutate these; every computation is a
// read-only pass over a snapshot.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderStatus represents the lifecycle state of an order. Only completed
// orders count toward revenue metrics.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCanceled  OrderStatus = "CANCELED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Customer captures the acquisition facts for a single customer.
type Customer struct {
	ID                  snowflake.ID `gorm:"column:customer_id;primaryKey"`
	AcquisitionDate     time.Time    `gorm:"column:acquisition_date;not null;index"`
	AcquisitionChannel  string       `gorm:"column:acquisition_channel;type:text;not null"`
	AcquisitionCampaign string       `gorm:"column:acquisition_campaign;type:text;not null"`
	FirstPurchaseAmount float64      `gorm:"column:first_purchase_amount"`
	FirstPurchaseDate   *time.Time   `gorm:"column:first_purchase_date"`
	Segment             string       `gorm:"column:segment;type:text"`
	Region              string       `gorm:"column:region;type:text"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Order is a single purchase fact.
type Order struct {
	ID         snowflake.ID `gorm:"column:order_id;primaryKey"`
	CustomerID snowflake.ID `gorm:"column:customer_id;not null;index"`
	Total      float64      `gorm:"column:order_total;not null"`
	OrderDate  time.Time    `gorm:"column:order_date;not null;index"`
	Status     OrderStatus  `gorm:"column:status;type:text;not null"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Completed reports whether the order counts toward revenue.
func (o Order) Completed() bool { return o.Status == OrderStatusCompleted }

// MarketingSpend is one spend fact for a campaign on a given date.
type MarketingSpend struct {
	CampaignID   snowflake.ID `gorm:"column:campaign_id;not null;index"`
	Channel      string       `gorm:"column:channel;type:text;not null"`
	CampaignName string       `gorm:"column:campaign_name;type:text;not null"`
	CampaignDate time.Time    `gorm:"column:campaign_date;not null;index"`
	Amount       float64      `gorm:"column:spend_amount;not null"`
}

// TableName sets the database table name.
func (MarketingSpend) TableName() string { return "marketing_spend" }

// Subscription captures a customer's recurring billing agreement.
type Subscription struct {
	ID           snowflake.ID       `gorm:"column:subscription_id;primaryKey"`
	CustomerID   snowflake.ID       `gorm:"column:customer_id;not null;index"`
	PlanType     string             `gorm:"column:plan_type;type:text;not null"`
	MonthlyPrice float64            `gorm:"column:monthly_price;not null"`
	StartDate    time.Time          `gorm:"column:start_date;not null;index"`
	EndDate      *time.Time         `gorm:"column:end_date"`
	Status       SubscriptionStatus `gorm:"column:status;type:text;not null"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// Touchpoint is one marketing contact between a campaign and a customer.
// Weight is caller-supplied and is not required to sum to 1 per customer.
type Touchpoint struct {
	CustomerID   snowflake.ID `gorm:"column:customer_id;not null;index"`
	CampaignID   snowflake.ID `gorm:"column:campaign_id;not null;index"`
	TouchedAt    time.Time    `gorm:"column:touchpoint_date;not null;index"`
	Channel      string       `gorm:"column:channel;type:text;not null"`
	CampaignName string       `gorm:"column:campaign_name;type:text;not null"`
	Weight       float64      `gorm:"column:attribution_weight;not null"`
}

// TableName sets the database table name.
func (Touchpoint) TableName() string { return "touchpoints" }

// Campaign holds delivery stats and cost for a campaign.
type Campaign struct {
	ID          snowflake.ID `gorm:"column:campaign_id;primaryKey"`
	Cost        float64      `gorm:"column:cost;not null"`
	Impressions int64        `gorm:"column:impressions;not null"`
	Clicks      int64        `gorm:"column:clicks;not null"`
	Conversions int64        `gorm:"column:conversions;not null"`
	StartDate   time.Time    `gorm:"column:start_date;not null"`
}

// TableName sets the database table name.
func (Campaign) TableName() string { return "campaigns" }
