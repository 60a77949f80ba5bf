package service

import (
	"context"

	"github.com/affiway/backoffice/internal/money"
)

// BreakdownService resolves an order's financial decomposition against its
// product cost schedule
type BreakdownService struct {
	orders   OrderRepository
	products ProductRepository
}

// NewBreakdownService creates new BreakdownService instance
func NewBreakdownService(orders OrderRepository, products ProductRepository) *BreakdownService {
	return &BreakdownService{orders: orders, products: products}
}

// Breakdown loads the order and its product and computes the cost and
// profit decomposition
func (bs *BreakdownService) Breakdown(ctx context.Context, orderID string) (money.Breakdown, error) {
	order, err := bs.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return money.Breakdown{}, err
	}

	product, err := bs.products.GetProductByID(ctx, order.ProductID)
	if err != nil {
		return money.Breakdown{}, err
	}

	return money.ComputeBreakdown(order, product), nil
}
