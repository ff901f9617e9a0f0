// Package domain defines the full marketing-finance report: every metric
// family computed over one warehouse snapshot with a shared option set.
package domain

import (
	"context"
	"time"

	acquisitiondomain "github.com/smallbiznis/metrica/internal/acquisition/domain"
	attributiondomain "github.com/smallbiznis/metrica/internal/attribution/domain"
	cohortdomain "github.com/smallbiznis/metrica/internal/cohort/domain"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	lifetimedomain "github.com/smallbiznis/metrica/internal/lifetime/domain"
	recurringdomain "github.com/smallbiznis/metrica/internal/recurring/domain"
	warehousedomain "github.com/smallbiznis/metrica/internal/warehouse/domain"
)

// Options carries the analytic constants for one run. Zero-valued fields are
// filled from configuration; EvaluationInstant defaults to the engine clock.
type Options struct {
	LookbackMonths        int
	AttributionWindowDays int
	AssumedCAC            float64
	EvaluationInstant     time.Time
	CohortHorizonMonths   int
	MRREpoch              time.Time
}

// Validate rejects an option set before any data is fetched.
func (o Options) Validate() error {
	if o.LookbackMonths <= 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "lookbackMonths", Reason: "must be positive"}
	}
	if o.AttributionWindowDays < 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "attributionWindowDays", Reason: "cannot be negative"}
	}
	if o.AssumedCAC <= 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "assumedCac", Reason: "must be positive"}
	}
	if o.EvaluationInstant.IsZero() {
		return &datasetdomain.InvalidConfigurationError{Option: "evaluationInstant", Reason: "must be set"}
	}
	if o.CohortHorizonMonths < 0 {
		return &datasetdomain.InvalidConfigurationError{Option: "cohortHorizonMonths", Reason: "cannot be negative"}
	}
	return nil
}

// Request runs a report over the given warehouse window. Options left at
// their zero value fall back to configured defaults.
type Request struct {
	Window  warehousedomain.Window
	Options Options
}

// Report is the assembled output of one run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Window      warehousedomain.Window
	Options     Options

	Acquisition []acquisitiondomain.Row
	Lifetime    lifetimedomain.Result
	MRRTrend    []recurringdomain.TrendRow
	Attribution attributiondomain.Result
	Cohorts     cohortdomain.Result
}

type Service interface {
	Run(ctx context.Context, req Request) (*Report, error)
}
