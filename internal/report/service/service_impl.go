package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	acquisitiondomain "github.com/smallbiznis/metrica/internal/acquisition/domain"
	attributiondomain "github.com/smallbiznis/metrica/internal/attribution/domain"
	"github.com/smallbiznis/metrica/internal/clock"
	cohortdomain "github.com/smallbiznis/metrica/internal/cohort/domain"
	"github.com/smallbiznis/metrica/internal/config"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	lifetimedomain "github.com/smallbiznis/metrica/internal/lifetime/domain"
	recurringdomain "github.com/smallbiznis/metrica/internal/recurring/domain"
	"github.com/smallbiznis/metrica/internal/report/domain"
	"github.com/smallbiznis/metrica/internal/telemetry"
	warehousedomain "github.com/smallbiznis/metrica/internal/warehouse/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	Metrics     *config.MetricsConfigHolder
	Recorder    *telemetry.Recorder
	Reader      warehousedomain.Reader
	Acquisition acquisitiondomain.Service
	Lifetime    lifetimedomain.Service
	Recurring   recurringdomain.Service
	Attribution attributiondomain.Service
	Cohort      cohortdomain.Service
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	metrics     *config.MetricsConfigHolder
	recorder    *telemetry.Recorder
	reader      warehousedomain.Reader
	acquisition acquisitiondomain.Service
	lifetime    lifetimedomain.Service
	recurring   recurringdomain.Service
	attribution attributiondomain.Service
	cohort      cohortdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("report.service"),
		clock:       p.Clock,
		metrics:     p.Metrics,
		recorder:    p.Recorder,
		reader:      p.Reader,
		acquisition: p.Acquisition,
		lifetime:    p.Lifetime,
		recurring:   p.Recurring,
		attribution: p.Attribution,
		cohort:      p.Cohort,
	}
}

func (s *Service) Run(ctx context.Context, req domain.Request) (*domain.Report, error) {
	opts := s.applyDefaults(req.Options)
	if err := opts.Validate(); err != nil {
		s.recorder.ObserveReportRun("invalid_configuration")
		return nil, err
	}
	if err := req.Window.Validate(); err != nil {
		s.recorder.ObserveReportRun("invalid_window")
		return nil, err
	}

	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))

	snapshot, err := s.load(ctx, req.Window)
	if err != nil {
		s.recorder.ObserveReportRun("load_failed")
		return nil, err
	}
	if err := s.validate(snapshot); err != nil {
		s.recorder.ObserveReportRun("invalid_input")
		return nil, err
	}

	report := &domain.Report{
		RunID:       runID,
		GeneratedAt: s.clock.Now(),
		Window:      req.Window,
		Options:     opts,
	}

	if err := s.compute(ctx, log, snapshot, opts, report); err != nil {
		s.recorder.ObserveReportRun("compute_failed")
		return nil, err
	}

	s.recorder.ObserveReportRun("ok")
	log.Info("report complete",
		zap.Int("acquisition_rows", len(report.Acquisition)),
		zap.Int("customer_values", len(report.Lifetime.Customers)),
		zap.Int("mrr_rows", len(report.MRRTrend)),
		zap.Int("campaigns", len(report.Attribution.Campaigns)),
		zap.Int("cohort_rows", len(report.Cohorts.Rows)),
	)
	return report, nil
}

type snapshot struct {
	customers     []datasetdomain.Customer
	orders        []datasetdomain.Order
	touchpoints   []datasetdomain.Touchpoint
	spend         []datasetdomain.MarketingSpend
	subscriptions []datasetdomain.Subscription
	campaigns     []datasetdomain.Campaign
}

// load materializes all six streams before any computation starts; the
// calculators never touch I/O.
func (s *Service) load(ctx context.Context, w warehousedomain.Window) (*snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.customers, err = s.reader.Customers(ctx, w); err != nil {
		return nil, err
	}
	if snap.orders, err = s.reader.Orders(ctx, w); err != nil {
		return nil, err
	}
	if snap.touchpoints, err = s.reader.Touchpoints(ctx, w); err != nil {
		return nil, err
	}
	if snap.spend, err = s.reader.Spend(ctx, w); err != nil {
		return nil, err
	}
	if snap.subscriptions, err = s.reader.Subscriptions(ctx, w); err != nil {
		return nil, err
	}
	if snap.campaigns, err = s.reader.Campaigns(ctx, w); err != nil {
		return nil, err
	}

	s.recorder.ObserveRecordsLoaded("customers", len(snap.customers))
	s.recorder.ObserveRecordsLoaded("orders", len(snap.orders))
	s.recorder.ObserveRecordsLoaded("touchpoints", len(snap.touchpoints))
	s.recorder.ObserveRecordsLoaded("spend", len(snap.spend))
	s.recorder.ObserveRecordsLoaded("subscriptions", len(snap.subscriptions))
	s.recorder.ObserveRecordsLoaded("campaigns", len(snap.campaigns))
	return &snap, nil
}

// validate runs the cross-stream checks only the orchestrator can do: it is
// the one component holding both customers and orders.
func (s *Service) validate(snap *snapshot) error {
	if err := datasetdomain.ValidateCustomers(snap.customers); err != nil {
		return err
	}
	known := make(map[int64]struct{}, len(snap.customers))
	for _, c := range snap.customers {
		known[int64(c.ID)] = struct{}{}
	}
	if err := datasetdomain.ValidateOrders(snap.orders, known); err != nil {
		return err
	}
	if err := datasetdomain.ValidateTouchpoints(snap.touchpoints); err != nil {
		return err
	}
	if err := datasetdomain.ValidateSpend(snap.spend); err != nil {
		return err
	}
	if err := datasetdomain.ValidateSubscriptions(snap.subscriptions); err != nil {
		return err
	}
	return datasetdomain.ValidateCampaigns(snap.campaigns)
}

func (s *Service) compute(ctx context.Context, log *zap.Logger, snap *snapshot, opts domain.Options, report *domain.Report) error {
	var err error

	start := time.Now()
	report.Acquisition, err = s.acquisition.Compute(ctx, acquisitiondomain.Request{
		Customers:         snap.customers,
		Spend:             snap.spend,
		EvaluationInstant: opts.EvaluationInstant,
		LookbackMonths:    opts.LookbackMonths,
	})
	if err != nil {
		return err
	}
	s.observe(log, "acquisition", len(report.Acquisition), start)

	start = time.Now()
	report.Lifetime, err = s.lifetime.Estimate(ctx, lifetimedomain.Request{
		Customers:         snap.customers,
		Orders:            snap.orders,
		EvaluationInstant: opts.EvaluationInstant,
		AssumedCAC:        opts.AssumedCAC,
	})
	if err != nil {
		return err
	}
	s.observe(log, "lifetime", len(report.Lifetime.Customers), start)

	start = time.Now()
	report.MRRTrend, err = s.recurring.Trend(ctx, recurringdomain.Request{
		Subscriptions:     snap.subscriptions,
		Epoch:             opts.MRREpoch,
		EvaluationInstant: opts.EvaluationInstant,
	})
	if err != nil {
		return err
	}
	s.observe(log, "recurring", len(report.MRRTrend), start)

	start = time.Now()
	report.Attribution, err = s.attribution.Attribute(ctx, attributiondomain.Request{
		Touchpoints: snap.touchpoints,
		Orders:      snap.orders,
		Campaigns:   snap.campaigns,
		WindowDays:  opts.AttributionWindowDays,
	})
	if err != nil {
		return err
	}
	s.observe(log, "attribution", len(report.Attribution.Campaigns), start)

	start = time.Now()
	report.Cohorts, err = s.cohort.Aggregate(ctx, cohortdomain.Request{
		Customers:     snap.customers,
		Orders:        snap.orders,
		AssumedCAC:    opts.AssumedCAC,
		HorizonMonths: opts.CohortHorizonMonths,
	})
	if err != nil {
		return err
	}
	s.observe(log, "cohort", len(report.Cohorts.Rows), start)

	return nil
}

func (s *Service) observe(log *zap.Logger, family string, rows int, start time.Time) {
	elapsed := time.Since(start)
	s.recorder.ObserveFamily(family, rows, elapsed)
	log.Debug("family computed",
		zap.String("family", family),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
}

func (s *Service) applyDefaults(opts domain.Options) domain.Options {
	cfg := s.metrics.Get()
	if opts.LookbackMonths == 0 {
		opts.LookbackMonths = cfg.LookbackMonths
	}
	if opts.AttributionWindowDays == 0 {
		opts.AttributionWindowDays = cfg.AttributionWindowDays
	}
	if opts.AssumedCAC == 0 {
		opts.AssumedCAC = cfg.AssumedCAC
	}
	if opts.EvaluationInstant.IsZero() {
		opts.EvaluationInstant = s.clock.Now()
	}
	if opts.CohortHorizonMonths == 0 {
		opts.CohortHorizonMonths = cfg.CohortHorizonMonths
	}
	if opts.MRREpoch.IsZero() {
		opts.MRREpoch = cfg.MRREpochTime()
	}
	return opts
}
