package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateCustomersPurchaseBeforeAcquisition(t *testing.T) {
	first := day(2024, time.December, 25)
	err := ValidateCustomers([]Customer{
		{ID: 1, AcquisitionDate: day(2025, time.January, 1), FirstPurchaseDate: &first},
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "customer", valErr.Entity)
	assert.ErrorIs(t, err, ErrDateOrder)
}

func TestValidateOrdersUnknownCustomer(t *testing.T) {
	known := map[int64]struct{}{1: {}}
	err := ValidateOrders([]Order{
		{ID: 7, CustomerID: 2, Total: 10, OrderDate: day(2025, time.January, 1), Status: OrderStatusCompleted},
	}, known)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "7", valErr.Record)
	assert.ErrorIs(t, err, ErrUnknownCustomer)
}

func TestValidateOrdersSkipsReferentialCheckWithoutIndex(t *testing.T) {
	err := ValidateOrders([]Order{
		{ID: 7, CustomerID: 2, Total: 10, OrderDate: day(2025, time.January, 1), Status: OrderStatusCompleted},
	}, nil)
	assert.NoError(t, err)
}

func TestValidateNegativeAmounts(t *testing.T) {
	assert.ErrorIs(t, ValidateOrders([]Order{{ID: 1, CustomerID: 1, Total: -1}}, nil), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateSpend([]MarketingSpend{{CampaignID: 1, Amount: -1}}), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateSubscriptions([]Subscription{{ID: 1, MonthlyPrice: -1}}), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateTouchpoints([]Touchpoint{{CustomerID: 1, Weight: -0.1}}), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateCampaigns([]Campaign{{ID: 1, Cost: -5}}), ErrNegativeAmount)
}

func TestValidationErrorMessageNamesRecord(t *testing.T) {
	err := &ValidationError{Entity: "order", Record: "42", Field: "order_total", Reason: ErrNegativeAmount}
	assert.Contains(t, err.Error(), "order 42")
	assert.Contains(t, err.Error(), "order_total")
}
