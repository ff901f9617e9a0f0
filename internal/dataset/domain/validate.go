package domain

// ValidateCustomers checks every customer record, failing on the first
// malformed one.
func ValidateCustomers(customers []Customer) error {
	for _, c := range customers {
		if c.ID == 0 {
			return &ValidationError{Entity: "customer", Record: c.ID.String(), Field: "customer_id", Reason: ErrMissingID}
		}
		if c.FirstPurchaseAmount < 0 {
			return &ValidationError{Entity: "customer", Record: c.ID.String(), Field: "first_purchase_amount", Reason: ErrNegativeAmount}
		}
		if c.FirstPurchaseDate != nil && c.FirstPurchaseDate.Before(c.AcquisitionDate) {
			return &ValidationError{Entity: "customer", Record: c.ID.String(), Field: "first_purchase_date", Reason: ErrDateOrder}
		}
	}
	return nil
}

// ValidateOrders checks order records and, when known is non-nil, that each
// order references a known customer.
func ValidateOrders(orders []Order, known map[int64]struct{}) error {
	for _, o := range orders {
		if o.ID == 0 {
			return &ValidationError{Entity: "order", Record: o.ID.String(), Field: "order_id", Reason: ErrMissingID}
		}
		if o.CustomerID == 0 {
			return &ValidationError{Entity: "order", Record: o.ID.String(), Field: "customer_id", Reason: ErrMissingID}
		}
		if o.Total < 0 {
			return &ValidationError{Entity: "order", Record: o.ID.String(), Field: "order_total", Reason: ErrNegativeAmount}
		}
		if known != nil {
			if _, ok := known[int64(o.CustomerID)]; !ok {
				return &ValidationError{Entity: "order", Record: o.ID.String(), Field: "customer_id", Reason: ErrUnknownCustomer}
			}
		}
	}
	return nil
}

// ValidateSpend checks marketing spend records.
func ValidateSpend(spend []MarketingSpend) error {
	for _, s := range spend {
		if s.Amount < 0 {
			return &ValidationError{Entity: "marketing_spend", Record: s.CampaignID.String(), Field: "spend_amount", Reason: ErrNegativeAmount}
		}
	}
	return nil
}

// ValidateSubscriptions checks subscription records.
func ValidateSubscriptions(subs []Subscription) error {
	for _, s := range subs {
		if s.ID == 0 {
			return &ValidationError{Entity: "subscription", Record: s.ID.String(), Field: "subscription_id", Reason: ErrMissingID}
		}
		if s.MonthlyPrice < 0 {
			return &ValidationError{Entity: "subscription", Record: s.ID.String(), Field: "monthly_price", Reason: ErrNegativeAmount}
		}
		if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
			return &ValidationError{Entity: "subscription", Record: s.ID.String(), Field: "end_date", Reason: ErrDateOrder}
		}
	}
	return nil
}

// ValidateTouchpoints checks touchpoint records.
func ValidateTouchpoints(tps []Touchpoint) error {
	for _, tp := range tps {
		if tp.CustomerID == 0 {
			return &ValidationError{Entity: "touchpoint", Record: tp.CampaignID.String(), Field: "customer_id", Reason: ErrMissingID}
		}
		if tp.Weight < 0 {
			return &ValidationError{Entity: "touchpoint", Record: tp.CampaignID.String(), Field: "attribution_weight", Reason: ErrNegativeAmount}
		}
	}
	return nil
}

// ValidateCampaigns checks campaign records.
func ValidateCampaigns(campaigns []Campaign) error {
	for _, c := range campaigns {
		if c.ID == 0 {
			return &ValidationError{Entity: "campaign", Record: c.ID.String(), Field: "campaign_id", Reason: ErrMissingID}
		}
		if c.Cost < 0 {
			return &ValidationError{Entity: "campaign", Record: c.ID.String(), Field: "cost", Reason: ErrNegativeAmount}
		}
		if c.Impressions < 0 || c.Clicks < 0 || c.Conversions < 0 {
			return &ValidationError{Entity: "campaign", Record: c.ID.String(), Field: "delivery_stats", Reason: ErrNegativeAmount}
		}
	}
	return nil
}
