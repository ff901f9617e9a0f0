package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/metrica/internal/attribution/domain"
	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
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
	return &Service{log: p.Log.Named("attribution.service")}
}

type rankedTouch struct {
	datasetdomain.Touchpoint
	position int // record order, the stable tiebreak
}

type customerJourney struct {
	touches []rankedTouch
	revenue float64
	orders  int
}

func (s *Service) Attribute(ctx context.Context, req domain.Request) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.Result{}, err
	}
	if err := datasetdomain.ValidateTouchpoints(req.Touchpoints); err != nil {
		return domain.Result{}, err
	}
	if err := datasetdomain.ValidateOrders(req.Orders, nil); err != nil {
		return domain.Result{}, err
	}
	if err := datasetdomain.ValidateCampaigns(req.Campaigns); err != nil {
		return domain.Result{}, err
	}

	windowDays := req.WindowDays
	if windowDays == 0 {
		windowDays = domain.DefaultWindowDays
	}
	window := time.Duration(windowDays) * 24 * time.Hour

	journeys := make(map[snowflake.ID]*customerJourney)
	for i, tp := range req.Touchpoints {
		j, ok := journeys[tp.CustomerID]
		if !ok {
			j = &customerJourney{}
			journeys[tp.CustomerID] = j
		}
		j.touches = append(j.touches, rankedTouch{Touchpoint: tp, position: i})
	}
	for _, j := range journeys {
		sort.Slice(j.touches, func(a, b int) bool {
			ta, tb := j.touches[a], j.touches[b]
			if !ta.TouchedAt.Equal(tb.TouchedAt) {
				return ta.TouchedAt.Before(tb.TouchedAt)
			}
			return ta.position < tb.position
		})
	}

	// Revenue pool per customer: each completed order counts once if it
	// lands inside the window of any touchpoint.
	for _, o := range req.Orders {
		if !o.Completed() {
			continue
		}
		j, ok := journeys[o.CustomerID]
		if !ok {
			continue
		}
		for _, tp := range j.touches {
			if !o.OrderDate.Before(tp.TouchedAt) && !o.OrderDate.After(tp.TouchedAt.Add(window)) {
				j.revenue += o.Total
				j.orders++
				break
			}
		}
	}

	byCampaign := make(map[snowflake.ID]*domain.CampaignAttribution)
	campaign := func(id snowflake.ID, name, channel string) *domain.CampaignAttribution {
		c, ok := byCampaign[id]
		if !ok {
			c = &domain.CampaignAttribution{CampaignID: id}
			byCampaign[id] = c
		}
		if c.CampaignName == "" {
			c.CampaignName = name
		}
		if c.Channel == "" {
			c.Channel = channel
		}
		return c
	}

	customers := make([]domain.CustomerRevenue, 0, len(journeys))
	for customerID, j := range journeys {
		first := j.touches[0]
		last := j.touches[len(j.touches)-1]

		fc := campaign(first.CampaignID, first.CampaignName, first.Channel)
		fc.FirstTouchRevenue += j.revenue
		fc.FirstTouchCustomers++

		lc := campaign(last.CampaignID, last.CampaignName, last.Channel)
		lc.LastTouchRevenue += j.revenue
		lc.LastTouchCustomers++

		for _, tp := range j.touches {
			mc := campaign(tp.CampaignID, tp.CampaignName, tp.Channel)
			mc.MultiTouchRevenue += j.revenue * tp.Weight
		}

		customers = append(customers, domain.CustomerRevenue{
			CustomerID: customerID,
			Revenue:    j.revenue,
			Orders:     j.orders,
			FirstTouch: first.TouchedAt,
			LastTouch:  last.TouchedAt,
		})
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].CustomerID < customers[j].CustomerID })

	// Campaigns without touchpoints in the window still report their
	// delivery stats with zero attribution.
	for _, c := range req.Campaigns {
		attr := campaign(c.ID, "", "")
		attr.Cost = c.Cost
		attr.Impressions = c.Impressions
		attr.Clicks = c.Clicks
		attr.Conversions = c.Conversions
	}

	rows := make([]domain.CampaignAttribution, 0, len(byCampaign))
	for _, attr := range byCampaign {
		if attr.Cost > 0 {
			roi := (attr.MultiTouchRevenue - attr.Cost) / attr.Cost * 100
			attr.ROI = &roi
		}
		if attr.Impressions > 0 {
			ctr := float64(attr.Clicks) / float64(attr.Impressions) * 100
			attr.ClickThrough = &ctr
		}
		if attr.Clicks > 0 {
			cvr := float64(attr.Conversions) / float64(attr.Clicks) * 100
			attr.ConversionRate = &cvr
		}
		rows = append(rows, *attr)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CampaignID < rows[j].CampaignID })

	s.log.Debug("attributed campaign revenue",
		zap.Int("campaigns", len(rows)),
		zap.Int("customers", len(customers)),
	)
	return domain.Result{Campaigns: rows, Customers: customers}, nil
}
