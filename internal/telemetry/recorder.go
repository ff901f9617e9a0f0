// Package telemetry exposes Prometheus observability primitives for the
// metrics engine.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder tracks report computations.
type Recorder struct {
	registry       *prometheus.Registry
	reportRuns     *prometheus.CounterVec
	familyDuration *prometheus.HistogramVec
	familyRows     *prometheus.CounterVec
	recordsLoaded  *prometheus.CounterVec
}

// NewRecorder registers and returns the engine's Prometheus metrics.
func NewRecorder() *Recorder {
	reportRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metrica_report_runs_total",
		Help: "Counts report runs by outcome.",
	}, []string{"status"})

	familyDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metrica_family_duration_seconds",
		Help:    "Computation latency per metric family.",
		Buckets: prometheus.DefBuckets,
	}, []string{"family"})

	familyRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metrica_family_rows_total",
		Help: "Result rows emitted per metric family.",
	}, []string{"family"})

	recordsLoaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metrica_warehouse_records_total",
		Help: "Records loaded from the warehouse per stream.",
	}, []string{"stream"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(reportRuns, familyDuration, familyRows, recordsLoaded)

	return &Recorder{
		registry:       registry,
		reportRuns:     reportRuns,
		familyDuration: familyDuration,
		familyRows:     familyRows,
		recordsLoaded:  recordsLoaded,
	}
}

// Registry returns the backing registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) ObserveReportRun(status string) {
	r.reportRuns.WithLabelValues(status).Inc()
}

func (r *Recorder) ObserveFamily(family string, rows int, elapsed time.Duration) {
	r.familyDuration.WithLabelValues(family).Observe(elapsed.Seconds())
	r.familyRows.WithLabelValues(family).Add(float64(rows))
}

func (r *Recorder) ObserveRecordsLoaded(stream string, count int) {
	r.recordsLoaded.WithLabelValues(stream).Add(float64(count))
}
