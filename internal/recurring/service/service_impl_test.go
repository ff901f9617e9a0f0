package service

import (
	"context"
	"testing"
	"time"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	"github.com/smallbiznis/metrica/internal/recurring/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() domain.Service {
	return New(Params{Log: zap.NewNop()})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestTrendWorkedExample(t *testing.T) {
	// January: one 800/mo subscription. February: the 800 one plus a new
	// 200/mo one -> mrr 800 -> 1000, growth 25%, net-new 200.
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "pro", MonthlyPrice: 800, StartDate: day(2025, time.January, 5), Status: datasetdomain.SubscriptionStatusActive},
		{ID: 2, CustomerID: 102, PlanType: "pro", MonthlyPrice: 200, StartDate: day(2025, time.February, 1), Status: datasetdomain.SubscriptionStatusActive},
	}

	trend, err := newService().Trend(context.Background(), domain.Request{
		Subscriptions:     subs,
		EvaluationInstant: day(2025, time.February, 15),
	})
	require.NoError(t, err)
	require.Len(t, trend, 2)

	jan := trend[0]
	assert.Equal(t, day(2025, time.January, 1), jan.Month)
	assert.Equal(t, 800.0, jan.TotalMRR)
	assert.Equal(t, 1, jan.ActiveSubscribers)
	// First month of the series: net-new books the full MRR while the
	// growth rate stays undefined.
	assert.Nil(t, jan.PrevMonthMRR)
	assert.Nil(t, jan.MRRGrowthRate)
	assert.Equal(t, 800.0, jan.NetNewMRR)
	assert.Equal(t, 9600.0, jan.ARR)

	feb := trend[1]
	assert.Equal(t, day(2025, time.February, 1), feb.Month)
	assert.Equal(t, 1000.0, feb.TotalMRR)
	assert.Equal(t, 2, feb.ActiveSubscribers)
	require.NotNil(t, feb.PrevMonthMRR)
	assert.Equal(t, 800.0, *feb.PrevMonthMRR)
	require.NotNil(t, feb.MRRGrowthRate)
	assert.Equal(t, 25.0, *feb.MRRGrowthRate)
	require.NotNil(t, feb.SubscriberGrowthRate)
	assert.Equal(t, 100.0, *feb.SubscriberGrowthRate)
	assert.Equal(t, 200.0, feb.NetNewMRR)
	assert.Equal(t, 12000.0, feb.ARR)
}

func TestTrendGapLeavesPreviousUndefined(t *testing.T) {
	// Active in January, gone in February, back in March: the March row has
	// no previous month, so rates are undefined but net-new is the full MRR.
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "basic", MonthlyPrice: 100, StartDate: day(2025, time.January, 1), EndDate: ptr(day(2025, time.January, 31)), Status: datasetdomain.SubscriptionStatusCanceled},
		{ID: 2, CustomerID: 102, PlanType: "basic", MonthlyPrice: 300, StartDate: day(2025, time.March, 10), Status: datasetdomain.SubscriptionStatusActive},
	}

	trend, err := newService().Trend(context.Background(), domain.Request{
		Subscriptions:     subs,
		EvaluationInstant: day(2025, time.March, 20),
	})
	require.NoError(t, err)
	require.Len(t, trend, 2)

	march := trend[1]
	assert.Equal(t, day(2025, time.March, 1), march.Month)
	assert.Nil(t, march.PrevMonthMRR)
	assert.Nil(t, march.MRRGrowthRate)
	assert.Equal(t, 300.0, march.NetNewMRR)
}

func TestSnapshotEndedSubscriptionStopsCounting(t *testing.T) {
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "pro", MonthlyPrice: 500, StartDate: day(2025, time.January, 1), EndDate: ptr(day(2025, time.February, 10)), Status: datasetdomain.SubscriptionStatusCanceled},
	}

	rows, err := newService().Snapshot(context.Background(), domain.Request{
		Subscriptions:     subs,
		EvaluationInstant: day(2025, time.April, 1),
	})
	require.NoError(t, err)
	// January and February only; ordering is month descending.
	require.Len(t, rows, 2)
	assert.Equal(t, day(2025, time.February, 1), rows[0].Month)
	assert.Equal(t, day(2025, time.January, 1), rows[1].Month)
}

func TestSnapshotEpochFiltersEarlyStarts(t *testing.T) {
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "pro", MonthlyPrice: 500, StartDate: day(2023, time.June, 1), Status: datasetdomain.SubscriptionStatusActive},
		{ID: 2, CustomerID: 102, PlanType: "pro", MonthlyPrice: 200, StartDate: day(2025, time.January, 10), Status: datasetdomain.SubscriptionStatusActive},
	}

	rows, err := newService().Snapshot(context.Background(), domain.Request{
		Subscriptions:     subs,
		Epoch:             day(2024, time.January, 1),
		EvaluationInstant: day(2025, time.January, 20),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 200.0, rows[0].TotalMRR)
}

func TestSnapshotARPUAveragesPerSubscription(t *testing.T) {
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "pro", MonthlyPrice: 300, StartDate: day(2025, time.January, 1), Status: datasetdomain.SubscriptionStatusActive},
		{ID: 2, CustomerID: 101, PlanType: "pro", MonthlyPrice: 100, StartDate: day(2025, time.January, 1), Status: datasetdomain.SubscriptionStatusActive},
	}

	rows, err := newService().Snapshot(context.Background(), domain.Request{
		Subscriptions:     subs,
		EvaluationInstant: day(2025, time.January, 31),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Same customer holds both subscriptions.
	assert.Equal(t, 1, rows[0].ActiveSubscribers)
	assert.Equal(t, 400.0, rows[0].TotalMRR)
	assert.Equal(t, 200.0, rows[0].ARPU)
}

func TestSnapshotRejectsEndBeforeStart(t *testing.T) {
	subs := []datasetdomain.Subscription{
		{ID: 1, CustomerID: 101, PlanType: "pro", MonthlyPrice: 100, StartDate: day(2025, time.March, 1), EndDate: ptr(day(2025, time.January, 1))},
	}
	_, err := newService().Snapshot(context.Background(), domain.Request{
		Subscriptions:     subs,
		EvaluationInstant: day(2025, time.April, 1),
	})
	var valErr *datasetdomain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "end_date", valErr.Field)
}
