package repository

import (
	"context"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
	"github.com/smallbiznis/metrica/internal/warehouse/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Reader {
	return &repo{db: db}
}

func (r *repo) Customers(ctx context.Context, w domain.Window) ([]datasetdomain.Customer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var customers []datasetdomain.Customer
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.Customer{}).
		Where("acquisition_date >= ? AND acquisition_date < ?", w.From, w.To).
		Order("acquisition_date ASC, customer_id ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Orders(ctx context.Context, w domain.Window) ([]datasetdomain.Order, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var orders []datasetdomain.Order
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.Order{}).
		Where("order_date >= ? AND order_date < ?", w.From, w.To).
		Order("order_date ASC, order_id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Touchpoints returns records ordered by (touchpoint_date, customer_id,
// campaign_id); slice position is the stable tiebreak the attribution
// ranking relies on.
func (r *repo) Touchpoints(ctx context.Context, w domain.Window) ([]datasetdomain.Touchpoint, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var tps []datasetdomain.Touchpoint
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.Touchpoint{}).
		Where("touchpoint_date >= ? AND touchpoint_date < ?", w.From, w.To).
		Order("touchpoint_date ASC, customer_id ASC, campaign_id ASC").
		Find(&tps).Error
	if err != nil {
		return nil, err
	}
	return tps, nil
}

func (r *repo) Spend(ctx context.Context, w domain.Window) ([]datasetdomain.MarketingSpend, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var spend []datasetdomain.MarketingSpend
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.MarketingSpend{}).
		Where("campaign_date >= ? AND campaign_date < ?", w.From, w.To).
		Order("campaign_date ASC, campaign_id ASC").
		Find(&spend).Error
	if err != nil {
		return nil, err
	}
	return spend, nil
}

// Subscriptions returns every subscription whose active interval overlaps
// the window, including still-open ones.
func (r *repo) Subscriptions(ctx context.Context, w domain.Window) ([]datasetdomain.Subscription, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var subs []datasetdomain.Subscription
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.Subscription{}).
		Where("start_date < ? AND (end_date IS NULL OR end_date >= ?)", w.To, w.From).
		Order("start_date ASC, subscription_id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) Campaigns(ctx context.Context, w domain.Window) ([]datasetdomain.Campaign, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var campaigns []datasetdomain.Campaign
	err := r.db.WithContext(ctx).
		Model(&datasetdomain.Campaign{}).
		Where("start_date < ?", w.To).
		Order("start_date ASC, campaign_id ASC").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}
