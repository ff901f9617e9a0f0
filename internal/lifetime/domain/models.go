// Package domain defines customer lifetime value estimates projected over a
// three-year horizon from observed purchase frequency.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

// HorizonDays is the projection horizon for predicted CLV.
const HorizonDays = 3 * 365

type Request struct {
	Customers         []datasetdomain.Customer
	Orders            []datasetdomain.Order
	EvaluationInstant time.Time
	AssumedCAC        float64
}

func (r Request) Validate() error {
	if r.EvaluationInstant.IsZero() {
		return &datasetdomain.InvalidConfigurationError{Option: "evaluationInstant", Reason: "must be set"}
	}
	if r.AssumedCAC <= 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "assumedCac", Reason: "must be positive"}
	}
	return nil
}

// CustomerValue holds per-customer order statistics and the CLV projection.
// AvgDaysBetweenOrders is nil for customers with fewer than two completed
// orders; their PredictedCLV falls back to observed revenue. A customer past
// the three-year horizon projects negative; callers clamp if they need to.
type CustomerValue struct {
	CustomerID           snowflake.ID
	Channel              string
	TotalOrders          int
	TotalRevenue         float64
	AvgOrderValue        float64
	LifespanDays         float64
	AvgDaysBetweenOrders *float64
	PredictedCLV         float64
}

// ChannelSummary aggregates customer values per acquisition channel.
type ChannelSummary struct {
	Channel         string
	Customers       int
	TotalRevenue    float64
	AvgPredictedCLV float64
	CLVToCACRatio   float64
}

// Result pairs the per-customer estimates with the channel rollup.
type Result struct {
	Customers []CustomerValue
	Channels  []ChannelSummary
}

type Service interface {
	Estimate(ctx context.Context, req Request) (Result, error)
}
