package models

import "github.com/shopspring/decimal"

// CostVector is one side of a product's dual cost schedule. All values are
// per-order except CostOfGoods which is a per-unit cost.
type CostVector struct {
	FulfillmentCost decimal.Decimal
	ShippingCost    decimal.Decimal
	CareCommission  decimal.Decimal
	CostOfGoods     decimal.Decimal
}

// Bundle is a quantity/price package distinct from single-unit pricing.
type Bundle struct {
	ID         string
	Quantity   int
	Price      decimal.Decimal
	Commission decimal.Decimal
}

// Product carries the pricing and cost data the engine needs. A zero card
// cost field means "unspecified, inherit COD", never "free".
type Product struct {
	ID             string
	Name           string
	CardPrice      decimal.Decimal
	CardCommission decimal.Decimal
	CostsCOD       CostVector
	CostsCard      CostVector
	Bundles        []Bundle
}

// BundleByID returns the first bundle with the given id.
func (p *Product) BundleByID(id string) (*Bundle, bool) {
	for i := range p.Bundles {
		if p.Bundles[i].ID == id {
			return &p.Bundles[i], true
		}
	}
	return nil, false
}

// BundleByQuantity returns the first bundle declaring the given quantity.
func (p *Product) BundleByQuantity(qty int) (*Bundle, bool) {
	for i := range p.Bundles {
		if p.Bundles[i].Quantity == qty {
			return &p.Bundles[i], true
		}
	}
	return nil, false
}
