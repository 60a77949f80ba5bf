package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusPending      = "PENDING"
	OrderStatusContacted    = "CONTACTED"
	OrderStatusConfirmed    = "CONFIRMED"
	OrderStatusCancelled    = "CANCELLED"
	OrderStatusAnnulled     = "ANNULLED"
	OrderStatusShipped      = "SHIPPED"
	OrderStatusReleased     = "RELEASED"
	OrderStatusDelivered    = "DELIVERED"
	OrderStatusUnreachable  = "UNREACHABLE"
	OrderStatusNotCollected = "NOT_COLLECTED"
	OrderStatusStockHold    = "STOCK_HOLD"
	// tag statuses frozen by policy: the state machine does not
	// special-case them, callers must not offer an edit affordance
	OrderStatusDuplicate = "DUPLICATE"
	OrderStatusTest      = "TEST"
)

// payment method
const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"
)

// payment status
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Customer holds the recipient address block of an order.
type Customer struct {
	Name        string
	Street      string
	HouseNumber string
	City        string
	Province    string
	PostalCode  string
	Phone       string
}

// Order is a single customer purchase tracked through fulfillment.
type Order struct {
	ID                  string
	AffiliateID         string
	ProductID           string
	ProductQuantity     int
	VariantSelection    []string
	PaymentMethod       string
	PaymentStatus       string
	Status              string
	SaleAmount          decimal.Decimal
	CommissionAmount    decimal.Decimal
	TrackingCode        string
	Customer            Customer
	LastContactedBy     string
	LastContactedByName string
	StatusUpdatedAt     time.Time
	CreatedAt           time.Time
}

// Editable reports whether staff may still edit the order. DUPLICATE and
// TEST orders are frozen administratively.
func (o *Order) Editable() bool {
	return o.Status != OrderStatusDuplicate && o.Status != OrderStatusTest
}

// IsValidOrderStatus reports whether s is one of the known statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusContacted, OrderStatusConfirmed,
		OrderStatusCancelled, OrderStatusAnnulled, OrderStatusShipped,
		OrderStatusReleased, OrderStatusDelivered, OrderStatusUnreachable,
		OrderStatusNotCollected, OrderStatusStockHold,
		OrderStatusDuplicate, OrderStatusTest:
		return true
	}
	return false
}
