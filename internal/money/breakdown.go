// Package money computes the per-order cost and profit breakdown. All
// functions are pure and operate on decimals; rounding happens only at
// presentation boundaries, never mid-computation.
package money

import (
	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
)

// Breakdown is the financial decomposition of a single order.
type Breakdown struct {
	GrossSale           decimal.Decimal
	AffiliateCommission decimal.Decimal
	LogisticsCost       decimal.Decimal
	ShippingCost        decimal.Decimal
	CareCommission      decimal.Decimal
	CostOfGoods         decimal.Decimal
	NetProfit           decimal.Decimal
}

// fallback returns the card value when it is set and non-zero, otherwise
// the COD value. A zero card cost means "unspecified, inherit COD" and the
// rule applies to every cost field independently.
func fallback(card, cod decimal.Decimal) decimal.Decimal {
	if !card.IsZero() {
		return card
	}
	return cod
}

// costVector resolves the effective cost vector for the order's payment
// method, applying the per-field card-to-COD fallback.
func costVector(product *models.Product, paymentMethod string) models.CostVector {
	if paymentMethod != models.PaymentMethodCard {
		return product.CostsCOD
	}
	return models.CostVector{
		FulfillmentCost: fallback(product.CostsCard.FulfillmentCost, product.CostsCOD.FulfillmentCost),
		ShippingCost:    fallback(product.CostsCard.ShippingCost, product.CostsCOD.ShippingCost),
		CareCommission:  fallback(product.CostsCard.CareCommission, product.CostsCOD.CareCommission),
		CostOfGoods:     fallback(product.CostsCard.CostOfGoods, product.CostsCOD.CostOfGoods),
	}
}

// ComputeBreakdown decomposes the order's sale amount into costs and net
// profit using the product's dual cost schedule. Cost of goods is the only
// per-unit cost; everything else is charged once per order.
func ComputeBreakdown(order *models.Order, product *models.Product) Breakdown {
	costs := costVector(product, order.PaymentMethod)

	goods := costs.CostOfGoods.Mul(decimal.NewFromInt(int64(order.ProductQuantity)))

	net := order.SaleAmount.
		Sub(order.CommissionAmount).
		Sub(costs.FulfillmentCost).
		Sub(costs.ShippingCost).
		Sub(costs.CareCommission).
		Sub(goods)

	return Breakdown{
		GrossSale:           order.SaleAmount,
		AffiliateCommission: order.CommissionAmount,
		LogisticsCost:       costs.FulfillmentCost,
		ShippingCost:        costs.ShippingCost,
		CareCommission:      costs.CareCommission,
		CostOfGoods:         goods,
		NetProfit:           net,
	}
}
