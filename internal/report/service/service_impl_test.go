package service

import (
	"context"
	"testing"
	"time"

	acquisitionservice "github.com/smallbiznis/metrica/internal/acquisition/service"
	attributionservice "github.com/smallbiznis/metrica/internal/attribution/service"
	"github.com/smallbiznis/metrica/internal/clock"
	cohortservice "github.com/smallbiznis/metrica/internal/cohort/service"
	"github.com/smallbiznis/metrica/internal/config"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	lifetimeservice "github.com/smallbiznis/metrica/internal/lifetime/service"
	recurringservice "github.com/smallbiznis/metrica/internal/recurring/service"
	"github.com/smallbiznis/metrica/internal/report/domain"
	"github.com/smallbiznis/metrica/internal/telemetry"
	warehousedomain "github.com/smallbiznis/metrica/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type stubReader struct {
	customers     []datasetdomain.Customer
	orders        []datasetdomain.Order
	touchpoints   []datasetdomain.Touchpoint
	spend         []datasetdomain.MarketingSpend
	subscriptions []datasetdomain.Subscription
	campaigns     []datasetdomain.Campaign
}

func (s *stubReader) Customers(context.Context, warehousedomain.Window) ([]datasetdomain.Customer, error) {
	return s.customers, nil
}

func (s *stubReader) Orders(context.Context, warehousedomain.Window) ([]datasetdomain.Order, error) {
	return s.orders, nil
}

func (s *stubReader) Touchpoints(context.Context, warehousedomain.Window) ([]datasetdomain.Touchpoint, error) {
	return s.touchpoints, nil
}

func (s *stubReader) Spend(context.Context, warehousedomain.Window) ([]datasetdomain.MarketingSpend, error) {
	return s.spend, nil
}

func (s *stubReader) Subscriptions(context.Context, warehousedomain.Window) ([]datasetdomain.Subscription, error) {
	return s.subscriptions, nil
}

func (s *stubReader) Campaigns(context.Context, warehousedomain.Window) ([]datasetdomain.Campaign, error) {
	return s.campaigns, nil
}

func newReportService(t *testing.T, reader warehousedomain.Reader, clk clock.Clock) domain.Service {
	t.Helper()
	log := zap.NewNop()
	holder, err := config.NewMetricsConfigHolder()
	require.NoError(t, err)

	return New(Params{
		Log:         log,
		Clock:       clk,
		Metrics:     holder,
		Recorder:    telemetry.NewRecorder(),
		Reader:      reader,
		Acquisition: acquisitionservice.New(acquisitionservice.Params{Log: log}),
		Lifetime:    lifetimeservice.New(lifetimeservice.Params{Log: log}),
		Recurring:   recurringservice.New(recurringservice.Params{Log: log}),
		Attribution: attributionservice.New(attributionservice.Params{Log: log}),
		Cohort:      cohortservice.New(cohortservice.Params{Log: log}),
	})
}

func testWindow() warehousedomain.Window {
	return warehousedomain.Window{From: day(2024, time.June, 1), To: day(2025, time.June, 1)}
}

func TestRunAssemblesAllFamilies(t *testing.T) {
	reader := &stubReader{
		customers: []datasetdomain.Customer{
			{ID: 1, AcquisitionDate: day(2025, time.January, 10), AcquisitionChannel: "email", AcquisitionCampaign: "jan_push", FirstPurchaseAmount: 120},
		},
		orders: []datasetdomain.Order{
			{ID: 10, CustomerID: 1, Total: 120, OrderDate: day(2025, time.January, 12), Status: datasetdomain.OrderStatusCompleted},
		},
		touchpoints: []datasetdomain.Touchpoint{
			{CustomerID: 1, CampaignID: 5, TouchedAt: day(2025, time.January, 5), Channel: "email", CampaignName: "jan_push", Weight: 1},
		},
		spend: []datasetdomain.MarketingSpend{
			{CampaignID: 5, Channel: "email", CampaignName: "jan_push", CampaignDate: day(2025, time.January, 2), Amount: 60},
		},
		subscriptions: []datasetdomain.Subscription{
			{ID: 100, CustomerID: 1, PlanType: "pro", MonthlyPrice: 30, StartDate: day(2025, time.January, 12), Status: datasetdomain.SubscriptionStatusActive},
		},
		campaigns: []datasetdomain.Campaign{
			{ID: 5, Cost: 60, Impressions: 500, Clicks: 40, Conversions: 4, StartDate: day(2025, time.January, 1)},
		},
	}

	svc := newReportService(t, reader, clock.NewFakeClock(day(2025, time.June, 1)))
	report, err := svc.Run(context.Background(), domain.Request{Window: testWindow()})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, day(2025, time.June, 1), report.GeneratedAt)

	// Defaults from configuration filled in.
	assert.Equal(t, 50.0, report.Options.AssumedCAC)
	assert.Equal(t, 90, report.Options.AttributionWindowDays)
	assert.Equal(t, 12, report.Options.CohortHorizonMonths)
	assert.Equal(t, day(2025, time.June, 1), report.Options.EvaluationInstant)

	require.Len(t, report.Acquisition, 1)
	assert.Equal(t, 60.0, report.Acquisition[0].CAC)

	require.Len(t, report.Lifetime.Customers, 1)
	assert.Equal(t, 120.0, report.Lifetime.Customers[0].PredictedCLV)

	require.NotEmpty(t, report.MRRTrend)
	assert.Equal(t, 30.0, report.MRRTrend[0].TotalMRR)

	require.Len(t, report.Attribution.Campaigns, 1)
	assert.Equal(t, 120.0, report.Attribution.Campaigns[0].FirstTouchRevenue)

	require.Len(t, report.Cohorts.Rows, 1)
	assert.Equal(t, 1, report.Cohorts.Rows[0].CohortSize)
}

func TestRunRejectsOrderForUnknownCustomer(t *testing.T) {
	reader := &stubReader{
		customers: []datasetdomain.Customer{
			{ID: 1, AcquisitionDate: day(2025, time.January, 10), AcquisitionChannel: "email"},
		},
		orders: []datasetdomain.Order{
			{ID: 10, CustomerID: 999, Total: 50, OrderDate: day(2025, time.January, 12), Status: datasetdomain.OrderStatusCompleted},
		},
	}

	svc := newReportService(t, reader, clock.NewFakeClock(day(2025, time.June, 1)))
	_, err := svc.Run(context.Background(), domain.Request{Window: testWindow()})

	var valErr *datasetdomain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "order", valErr.Entity)
	assert.ErrorIs(t, err, datasetdomain.ErrUnknownCustomer)
}

func TestRunRejectsInvalidOptionsBeforeFetching(t *testing.T) {
	svc := newReportService(t, &stubReader{}, clock.NewFakeClock(day(2025, time.June, 1)))

	_, err := svc.Run(context.Background(), domain.Request{
		Window:  testWindow(),
		Options: domain.Options{AssumedCAC: -10},
	})
	var cfgErr *datasetdomain.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "assumedCac", cfgErr.Option)
}

func TestRunRejectsInvalidWindow(t *testing.T) {
	svc := newReportService(t, &stubReader{}, clock.NewFakeClock(day(2025, time.June, 1)))

	_, err := svc.Run(context.Background(), domain.Request{
		Window: warehousedomain.Window{From: day(2025, time.June, 1), To: day(2025, time.January, 1)},
	})
	assert.ErrorIs(t, err, warehousedomain.ErrInvalidWindow)
}
