// Package domain defines monthly recurring revenue tracking per plan type,
// with month-over-month trend rows.
package domain

import (
	"context"
	"time"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

// Request carries one MRR computation. Epoch filters out subscriptions that
// started before it; a zero Epoch keeps everything. Open-ended subscriptions
// are treated as active through EvaluationInstant.
type Request struct {
	Subscriptions     []datasetdomain.Subscription
	Epoch             time.Time
	EvaluationInstant time.Time
}

func (r Request) Validate() error {
	if r.EvaluationInstant.IsZero() {
		return &datasetdomain.InvalidConfigurationError{Option: "evaluationInstant", Reason: "must be set"}
	}
	if !r.Epoch.IsZero() && r.Epoch.After(r.EvaluationInstant) {
		return &datasetdomain.InvalidConfigurationError{Option: "mrrEpoch", Reason: "cannot be after evaluationInstant"}
	}
	return nil
}

// Row is one (month, plan_type) MRR snapshot.
type Row struct {
	Month             time.Time
	PlanType          string
	ActiveSubscribers int
	TotalMRR          float64
	ARPU              float64
}

// TrendRow extends Row with the lag against the immediately preceding month
// in the plan's ordered series. Gaps are not filled: a missing prior month
// leaves the Prev fields and growth rates nil. NetNewMRR alone treats an
// absent previous month as zero, so a plan's first month books its full MRR
// as net-new while its growth rate stays undefined.
type TrendRow struct {
	Row

	PrevMonthMRR         *float64
	PrevMonthSubscribers *int
	MRRGrowthRate        *float64
	SubscriberGrowthRate *float64
	ARR                  float64
	NetNewMRR            float64
}

type Service interface {
	// Snapshot returns (month, plan_type) rows ordered month descending,
	// plan type ascending.
	Snapshot(ctx context.Context, req Request) ([]Row, error)
	// Trend returns rows ordered plan type ascending, month ascending, the
	// order the lag fields are defined over.
	Trend(ctx context.Context, req Request) ([]TrendRow, error)
}
