package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	"github.com/smallbiznis/metrica/internal/recurring/domain"
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
	return &Service{log: p.Log.Named("recurring.service")}
}

type planKey struct {
	month time.Time
	plan  string
}

type planBucket struct {
	customers     map[snowflake.ID]struct{}
	subscriptions int
	mrr           float64
}

func (s *Service) Snapshot(ctx context.Context, req domain.Request) ([]domain.Row, error) {
	rows, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month) {
			return rows[i].Month.After(rows[j].Month)
		}
		return rows[i].PlanType < rows[j].PlanType
	})
	return rows, nil
}

func (s *Service) Trend(ctx context.Context, req domain.Request) ([]domain.TrendRow, error) {
	rows, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlanType != rows[j].PlanType {
			return rows[i].PlanType < rows[j].PlanType
		}
		return rows[i].Month.Before(rows[j].Month)
	})

	// Ordered fold per plan partition carrying the previous row. The series
	// keeps its gaps: "previous" means the prior row of the same plan only
	// when it is exactly one month earlier.
	trend := make([]domain.TrendRow, 0, len(rows))
	for i, row := range rows {
		tr := domain.TrendRow{Row: row, ARR: row.TotalMRR * 12, NetNewMRR: row.TotalMRR}
		if i > 0 && rows[i-1].PlanType == row.PlanType && month.Between(rows[i-1].Month, row.Month) == 1 {
			prev := rows[i-1]
			prevMRR := prev.TotalMRR
			prevSubs := prev.ActiveSubscribers
			tr.PrevMonthMRR = &prevMRR
			tr.PrevMonthSubscribers = &prevSubs
			tr.NetNewMRR = row.TotalMRR - prevMRR
			if prevMRR != 0 {
				rate := (row.TotalMRR - prevMRR) / prevMRR * 100
				tr.MRRGrowthRate = &rate
			}
			if prevSubs != 0 {
				rate := float64(row.ActiveSubscribers-prevSubs) / float64(prevSubs) * 100
				tr.SubscriberGrowthRate = &rate
			}
		}
		trend = append(trend, tr)
	}

	s.log.Debug("computed mrr trend", zap.Int("rows", len(trend)))
	return trend, nil
}

func (s *Service) snapshot(ctx context.Context, req domain.Request) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := datasetdomain.ValidateSubscriptions(req.Subscriptions); err != nil {
		return nil, err
	}

	buckets := make(map[planKey]*planBucket)
	for _, sub := range req.Subscriptions {
		if !req.Epoch.IsZero() && sub.StartDate.Before(req.Epoch) {
			continue
		}

		activeThrough := req.EvaluationInstant
		if sub.EndDate != nil && sub.EndDate.Before(activeThrough) {
			activeThrough = *sub.EndDate
		}

		for _, m := range month.Sequence(sub.StartDate, activeThrough) {
			key := planKey{month: m, plan: sub.PlanType}
			b, ok := buckets[key]
			if !ok {
				b = &planBucket{customers: make(map[snowflake.ID]struct{})}
				buckets[key] = b
			}
			b.customers[sub.CustomerID] = struct{}{}
			b.subscriptions++
			b.mrr += sub.MonthlyPrice
		}
	}

	rows := make([]domain.Row, 0, len(buckets))
	for key, b := range buckets {
		row := domain.Row{
			Month:             key.month,
			PlanType:          key.plan,
			ActiveSubscribers: len(b.customers),
			TotalMRR:          b.mrr,
		}
		if b.subscriptions > 0 {
			row.ARPU = b.mrr / float64(b.subscriptions)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
