package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/metrica/internal/acquisition/domain"
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
	return &Service{log: p.Log.Named("acquisition.service")}
}

type groupKey struct {
	month    time.Time
	channel  string
	campaign string
}

type group struct {
	customers map[snowflake.ID]struct{}
	revenue   float64
	spend     float64
}

func (s *Service) Compute(ctx context.Context, req domain.Request) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := datasetdomain.ValidateCustomers(req.Customers); err != nil {
		return nil, err
	}
	if err := datasetdomain.ValidateSpend(req.Spend); err != nil {
		return nil, err
	}

	cutoff := req.EvaluationInstant.AddDate(0, -req.LookbackMonths, 0)
	groups := make(map[groupKey]*group)

	get := func(key groupKey) *group {
		g, ok := groups[key]
		if !ok {
			g = &group{customers: make(map[snowflake.ID]struct{})}
			groups[key] = g
		}
		return g
	}

	for _, c := range req.Customers {
		if c.AcquisitionDate.Before(cutoff) || c.AcquisitionDate.After(req.EvaluationInstant) {
			continue
		}
		g := get(groupKey{
			month:    month.Bucket(c.AcquisitionDate),
			channel:  c.AcquisitionChannel,
			campaign: c.AcquisitionCampaign,
		})
		g.customers[c.ID] = struct{}{}
		g.revenue += c.FirstPurchaseAmount
	}

	// Spend with no acquired customers in its key still reports, with cac=0.
	for _, sp := range req.Spend {
		if sp.CampaignDate.Before(cutoff) || sp.CampaignDate.After(req.EvaluationInstant) {
			continue
		}
		g := get(groupKey{
			month:    month.Bucket(sp.CampaignDate),
			channel:  sp.Channel,
			campaign: sp.CampaignName,
		})
		g.spend += sp.Amount
	}

	rows := make([]domain.Row, 0, len(groups))
	for key, g := range groups {
		row := domain.Row{
			Month:                key.month,
			Channel:              key.channel,
			Campaign:             key.campaign,
			CustomersAcquired:    len(g.customers),
			Spend:                g.spend,
			FirstPurchaseRevenue: g.revenue,
		}
		if row.CustomersAcquired > 0 {
			row.CAC = row.Spend / float64(row.CustomersAcquired)
		}
		if row.Spend > 0 {
			roas := row.FirstPurchaseRevenue / row.Spend
			row.ROAS = &roas
		}
		if row.FirstPurchaseRevenue > 0 {
			cpd := row.Spend / row.FirstPurchaseRevenue
			row.CostPerRevenueDollar = &cpd
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month) {
			return rows[i].Month.After(rows[j].Month)
		}
		if rows[i].Channel != rows[j].Channel {
			return rows[i].Channel < rows[j].Channel
		}
		return rows[i].Campaign < rows[j].Campaign
	})

	s.log.Debug("computed acquisition metrics",
		zap.Int("groups", len(rows)),
		zap.Time("cutoff", cutoff),
	)
	return rows, nil
}
