package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	"github.com/smallbiznis/metrica/internal/lifetime/domain"
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
	return &Service{log: p.Log.Named("lifetime.service")}
}

type orderStats struct {
	count   int
	revenue float64
	first   int64 // unix seconds of earliest completed order
	last    int64
}

func (s *Service) Estimate(ctx context.Context, req domain.Request) (domain.Result, error) {
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

	stats := make(map[snowflake.ID]*orderStats)
	for _, o := range req.Orders {
		if !o.Completed() {
			continue
		}
		st, ok := stats[o.CustomerID]
		if !ok {
			st = &orderStats{first: o.OrderDate.Unix(), last: o.OrderDate.Unix()}
			stats[o.CustomerID] = st
		}
		ts := o.OrderDate.Unix()
		if ts < st.first {
			st.first = ts
		}
		if ts > st.last {
			st.last = ts
		}
		st.count++
		st.revenue += o.Total
	}

	values := make([]domain.CustomerValue, 0, len(req.Customers))
	for _, c := range req.Customers {
		value := domain.CustomerValue{
			CustomerID: c.ID,
			Channel:    c.AcquisitionChannel,
		}
		if st, ok := stats[c.ID]; ok {
			value.TotalOrders = st.count
			value.TotalRevenue = st.revenue
			value.AvgOrderValue = st.revenue / float64(st.count)
			value.LifespanDays = float64(st.last-st.first) / 86400
			if st.count > 1 {
				avgDays := value.LifespanDays / float64(st.count-1)
				value.AvgDaysBetweenOrders = &avgDays
			}
		}
		value.PredictedCLV = s.project(value, c, req)
		values = append(values, value)
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].CustomerID < values[j].CustomerID
	})

	channels := summarize(values, req.AssumedCAC)

	s.log.Debug("estimated customer lifetime values",
		zap.Int("customers", len(values)),
		zap.Int("channels", len(channels)),
	)
	return domain.Result{Customers: values, Channels: channels}, nil
}

// project applies the purchase-frequency CLV formula. Customers without a
// positive frequency keep their observed revenue; a horizon that already
// elapsed legitimately yields a negative projection.
func (s *Service) project(value domain.CustomerValue, c datasetdomain.Customer, req domain.Request) float64 {
	if value.AvgDaysBetweenOrders == nil || *value.AvgDaysBetweenOrders <= 0 {
		return value.TotalRevenue
	}
	ageDays := req.EvaluationInstant.Sub(c.AcquisitionDate).Hours() / 24
	remainingDays := float64(domain.HorizonDays) - ageDays
	ordersPerYear := 365 / *value.AvgDaysBetweenOrders
	return ordersPerYear * value.AvgOrderValue * (remainingDays / 365)
}

func summarize(values []domain.CustomerValue, assumedCAC float64) []domain.ChannelSummary {
	byChannel := make(map[string]*domain.ChannelSummary)
	sumCLV := make(map[string]float64)
	for _, v := range values {
		summary, ok := byChannel[v.Channel]
		if !ok {
			summary = &domain.ChannelSummary{Channel: v.Channel}
			byChannel[v.Channel] = summary
		}
		summary.Customers++
		summary.TotalRevenue += v.TotalRevenue
		sumCLV[v.Channel] += v.PredictedCLV
	}

	out := make([]domain.ChannelSummary, 0, len(byChannel))
	for channel, summary := range byChannel {
		summary.AvgPredictedCLV = sumCLV[channel] / float64(summary.Customers)
		summary.CLVToCACRatio = summary.AvgPredictedCLV / assumedCAC
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out
}
