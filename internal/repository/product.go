package repository

import (
	"context"
	"encoding/json"

	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/repository/postgres"
	"github.com/shopspring/decimal"
)

const (
	selectProductByIDQuery = `
						SELECT id, name, card_price, card_commission, costs_cod, costs_card, bundles
						FROM products
						WHERE id = $1
`
)

// cost vectors and bundles are stored as jsonb
type costVectorRow struct {
	FulfillmentCost decimal.Decimal `json:"fulfillment_cost"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	CareCommission  decimal.Decimal `json:"care_commission"`
	CostOfGoods     decimal.Decimal `json:"cost_of_goods"`
}

type bundleRow struct {
	ID         string          `json:"id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
}

// ProductRepository reads product pricing and cost schedules
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProductByID returns the product with its dual cost schedule and bundles
func (pr *ProductRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var (
		product   models.Product
		rawCOD    []byte
		rawCard   []byte
		rawBundle []byte
	)

	err := pr.db.QueryRow(ctx, selectProductByIDQuery, id).Scan(
		&product.ID, &product.Name, &product.CardPrice, &product.CardCommission,
		&rawCOD, &rawCard, &rawBundle)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, models.ErrUnknownProduct
		}
		return nil, err
	}

	var cod, card costVectorRow
	if err := json.Unmarshal(rawCOD, &cod); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawCard, &card); err != nil {
		return nil, err
	}

	var bundles []bundleRow
	if err := json.Unmarshal(rawBundle, &bundles); err != nil {
		return nil, err
	}

	product.CostsCOD = models.CostVector(cod)
	product.CostsCard = models.CostVector(card)
	for _, b := range bundles {
		product.Bundles = append(product.Bundles, models.Bundle(b))
	}

	return &product, nil
}
