package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMetadata round-trips every field needed to materialize an order
// from a gateway notification. Mapped explicitly at the boundary, never
// inferred per call site.
type PaymentMetadata struct {
	ProductID        string   `json:"product_id"`
	AffiliateID      string   `json:"affiliate_id"`
	SubID            string   `json:"sub_id"`
	BundleID         string   `json:"bundle_id"`
	Quantity         int      `json:"quantity"`
	VariantSelection []string `json:"variants"`
	Commission       string   `json:"commission"`
	CustomerName     string   `json:"customer_name"`
	Street           string   `json:"street"`
	HouseNumber      string   `json:"house_number"`
	City             string   `json:"city"`
	Province         string   `json:"province"`
	PostalCode       string   `json:"postal_code"`
	Phone            string   `json:"phone"`
}

// PaymentEvent is a payment-confirmation notification delivered
// at-least-once by the gateway. PaymentID is the idempotency key.
type PaymentEvent struct {
	PaymentID          string
	Amount             decimal.Decimal
	Currency           string
	SettlementAmount   decimal.Decimal
	SettlementCurrency string
	Metadata           PaymentMetadata
	ReceivedAt         time.Time
}
