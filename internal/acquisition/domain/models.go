// Package domain defines acquisition cost metrics: CAC, ROAS and
// cost-per-revenue-dollar grouped by (month, channel, campaign).
package domain

import (
	"context"
	"time"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

// Request carries one acquisition computation. Customers and Spend are
// snapshots; the trailing window is measured back from EvaluationInstant.
type Request struct {
	Customers         []datasetdomain.Customer
	Spend             []datasetdomain.MarketingSpend
	EvaluationInstant time.Time
	LookbackMonths    int
}

// Validate rejects the request before any computation runs.
func (r Request) Validate() error {
	if r.EvaluationInstant.IsZero() {
		return &datasetdomain.InvalidConfigurationError{Option: "evaluationInstant", Reason: "must be set"}
	}
	if r.LookbackMonths <= 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "lookbackMonths", Reason: "must be positive"}
	}
	return nil
}

// Row is one (month, channel, campaign) group. ROAS is nil when spend is
// zero; CostPerRevenueDollar is nil when first-purchase revenue is zero.
// CAC is zero, not nil, when the group acquired no customers.
type Row struct {
	Month                time.Time
	Channel              string
	Campaign             string
	CustomersAcquired    int
	Spend                float64
	FirstPurchaseRevenue float64
	CAC                  float64
	ROAS                 *float64
	CostPerRevenueDollar *float64
}

type Service interface {
	Compute(ctx context.Context, req Request) ([]Row, error)
}
