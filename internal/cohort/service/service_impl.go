package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/metrica/internal/cohort/domain"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	"github.com/smallbiznis/metrica/pkg/month"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
}

type Service struct {
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{log: p.Log.Named("cohort.service")}
}

type cohortKey struct {
	month   time.Time
	channel string
}

type cohortState struct {
	size    int
	offsets map[int]*offsetBucket
}

type offsetBucket struct {
	revenue float64
	active  map[snowflake.ID]struct{}
}

func (s *Service) Aggregate(ctx context.Context, req domain.Request) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.Result{}, err
	}
	if err := datasetdomain.ValidateCustomers(req.Customers); err != nil {
		return domain.Result{}, err
	}
	if err := datasetdomain.ValidateOrders(req.Orders, nil); err != nil {
		return domain.Result{}, err
	}

	horizon := req.HorizonMonths
	if horizon == 0 {
		horizon = domain.DefaultHorizonMonths
	}

	// Cohort formation: size is computed once here and never changes as
	// revenue months are processed.
	membership := make(map[snowflake.ID]cohortKey, len(req.Customers))
	cohorts := make(map[cohortKey]*cohortState)
	for _, c := range req.Customers {
		key := cohortKey{month: month.Bucket(c.AcquisitionDate), channel: c.AcquisitionChannel}
		membership[c.ID] = key
		state, ok := cohorts[key]
		if !ok {
			state = &cohortState{offsets: make(map[int]*offsetBucket)}
			cohorts[key] = state
		}
		state.size++
	}

	for _, o := range req.Orders {
		if !o.Completed() {
			continue
		}
		key, ok := membership[o.CustomerID]
		if !ok {
			continue
		}
		offset := month.Between(key.month, month.Bucket(o.OrderDate))
		if offset < 0 || offset > horizon {
			continue
		}
		state := cohorts[key]
		bucket, ok := state.offsets[offset]
		if !ok {
			bucket = &offsetBucket{active: make(map[snowflake.ID]struct{})}
			state.offsets[offset] = bucket
		}
		bucket.revenue += o.Total
		bucket.active[o.CustomerID] = struct{}{}
	}

	keys := make([]cohortKey, 0, len(cohorts))
	for key := range cohorts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].month.Equal(keys[j].month) {
			return keys[i].month.After(keys[j].month)
		}
		return keys[i].channel < keys[j].channel
	})

	var rows []domain.Row
	paybacks := make([]domain.Payback, 0, len(keys))
	for _, key := range keys {
		state := cohorts[key]

		offsets := make([]int, 0, len(state.offsets))
		for offset := range state.offsets {
			offsets = append(offsets, offset)
		}
		sort.Ints(offsets)

		// Running totals are an ordered fold over ascending offsets; the
		// accumulator starts fresh for every cohort.
		cumulative := 0.0
		payback := domain.Payback{CohortMonth: key.month, Channel: key.channel}
		for _, offset := range offsets {
			bucket := state.offsets[offset]
			cumulative += bucket.revenue
			row := domain.Row{
				CohortMonth:                  key.month,
				Channel:                      key.channel,
				MonthsSinceAcquisition:       offset,
				CohortSize:                   state.size,
				MonthlyRevenue:               bucket.revenue,
				ActiveCustomers:              len(bucket.active),
				RevenuePerCustomer:           bucket.revenue / float64(state.size),
				RetentionRate:                float64(len(bucket.active)) / float64(state.size) * 100,
				CumulativeRevenue:            cumulative,
				CumulativeRevenuePerCustomer: cumulative / float64(state.size),
				PaybackStatus:                domain.PaybackNotYet,
			}
			if row.CumulativeRevenuePerCustomer >= req.AssumedCAC {
				row.PaybackStatus = domain.PaybackAchieved
				if payback.PaybackMonth == nil {
					crossed := offset
					payback.PaybackMonth = &crossed
				}
			}
			rows = append(rows, row)
		}
		paybacks = append(paybacks, payback)
	}

	s.log.Debug("aggregated cohorts",
		zap.Int("cohorts", len(keys)),
		zap.Int("rows", len(rows)),
	)
	return domain.Result{Rows: rows, Paybacks: paybacks}, nil
}
