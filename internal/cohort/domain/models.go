// Package domain defines cohort revenue curves, retention and payback.
// Cohorts are keyed by (acquisition month, acquisition channel); running
// totals are prefix sums over month offsets and reset at every cohort
// boundary.
package domain

import (
	"context"
	"time"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

const (
	// DefaultHorizonMonths caps how far past acquisition a cohort is tracked.
	DefaultHorizonMonths = 12

	PaybackAchieved = "Payback Achieved"
	PaybackNotYet   = "Not Yet"
)

type Request struct {
	Customers     []datasetdomain.Customer
	Orders        []datasetdomain.Order
	AssumedCAC    float64
	HorizonMonths int
}

func (r Request) Validate() error {
	if r.AssumedCAC <= 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "assumedCac", Reason: "must be positive"}
	}
	if r.HorizonMonths < 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "cohortHorizonMonths", Reason: "cannot be negative"}
	}
	return nil
}

// Row is one (cohort, offset) observation. CohortSize is fixed at cohort
// formation and identical on every offset row of the same cohort.
type Row struct {
	CohortMonth                  time.Time
	Channel                      string
	MonthsSinceAcquisition       int
	CohortSize                   int
	MonthlyRevenue               float64
	ActiveCustomers              int
	RevenuePerCustomer           float64
	RetentionRate                float64
	CumulativeRevenue            float64
	CumulativeRevenuePerCustomer float64
	PaybackStatus                string
}

// Payback reports the first offset at which a cohort's cumulative revenue
// per customer crossed the assumed CAC; nil when it never did inside the
// horizon.
type Payback struct {
	CohortMonth  time.Time
	Channel      string
	PaybackMonth *int
}

// Result pairs the curve rows with the per-cohort payback summary.
type Result struct {
	Rows     []Row
	Paybacks []Payback
}

type Service interface {
	Aggregate(ctx context.Context, req Request) (Result, error)
}
