package service

import (
	"context"
	"testing"

	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_ResolvesOrderAndProduct(t *testing.T) {
	orders := newFakeOrderRepo(models.Order{
		ID:               "ord-1",
		ProductID:        "prod-1",
		ProductQuantity:  2,
		PaymentMethod:    models.PaymentMethodCOD,
		Status:           models.OrderStatusConfirmed,
		SaleAmount:       decimal.NewFromInt(100),
		CommissionAmount: decimal.NewFromInt(20),
	})
	products := &fakeProductRepo{products: map[string]*models.Product{
		"prod-1": {
			ID: "prod-1",
			CostsCOD: models.CostVector{
				FulfillmentCost: decimal.NewFromInt(5),
				ShippingCost:    decimal.NewFromInt(7),
				CareCommission:  decimal.NewFromInt(3),
				CostOfGoods:     decimal.NewFromInt(10),
			},
		},
	}}

	svc := NewBreakdownService(orders, products)

	b, err := svc.Breakdown(context.Background(), "ord-1")
	require.NoError(t, err)

	// 100 - 20 - 5 - 7 - 3 - 2*10
	assert.True(t, b.NetProfit.Equal(decimal.NewFromInt(45)), "net profit %s", b.NetProfit)
	assert.True(t, b.CostOfGoods.Equal(decimal.NewFromInt(20)))
}

func TestBreakdown_UnknownOrder(t *testing.T) {
	svc := NewBreakdownService(newFakeOrderRepo(), &fakeProductRepo{})

	_, err := svc.Breakdown(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestBreakdown_UnknownProduct(t *testing.T) {
	orders := newFakeOrderRepo(models.Order{ID: "ord-1", ProductID: "gone"})
	svc := NewBreakdownService(orders, &fakeProductRepo{products: map[string]*models.Product{}})

	_, err := svc.Breakdown(context.Background(), "ord-1")
	assert.ErrorIs(t, err, models.ErrUnknownProduct)
}
