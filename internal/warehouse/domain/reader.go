// Package domain defines the read-only contract between the warehouse and
// the metric calculators. The calculators only ever see materialized slices;
// all I/O finishes before computation starts.
package domain

import (
	"context"
	"errors"
	"time"

	datasetdomain "github.com/smallbiznis/metrica/internal/dataset/domain"
)

var ErrInvalidWindow = errors.New("invalid_window")

// Window bounds a snapshot fetch. From is inclusive, To exclusive.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() || !w.From.Before(w.To) {
		return ErrInvalidWindow
	}
	return nil
}

// Reader supplies ordered record streams for one report window.
type Reader interface {
	Customers(ctx context.Context, w Window) ([]datasetdomain.Customer, error)
	Orders(ctx context.Context, w Window) ([]datasetdomain.Order, error)
	Touchpoints(ctx context.Context, w Window) ([]datasetdomain.Touchpoint, error)
	Spend(ctx context.Context, w Window) ([]datasetdomain.MarketingSpend, error)
	Subscriptions(ctx context.Context, w Window) ([]datasetdomain.Subscription, error)
	Campaigns(ctx context.Context, w Window) ([]datasetdomain.Campaign, error)
}
