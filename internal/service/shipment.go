package service

import (
	"context"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/carrier"
	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
)

// CarrierClient books shipments with the logistics carrier
type CarrierClient interface {
	CreateShipment(ctx context.Context, req carrier.ShipmentRequest) (string, error)
}

// ShipmentService books a carrier shipment for an order and commits the
// returned tracking code through the state machine, which advances the
// order to SHIPPED.
type ShipmentService struct {
	orders *OrderService
	client CarrierClient
	sender carrier.Address
}

// NewShipmentService creates new ShipmentService instance
func NewShipmentService(orders *OrderService, client CarrierClient, sender carrier.Address) *ShipmentService {
	return &ShipmentService{
		orders: orders,
		client: client,
		sender: sender,
	}
}

// CreateShipment books the parcel with the carrier. A carrier failure
// surfaces its full diagnostic payload and leaves the order untouched; only
// a successful booking commits the tracking code.
func (ss *ShipmentService) CreateShipment(ctx context.Context, orderID string, parcel carrier.Parcel, actor auth.Actor) (*models.Order, error) {
	order, err := ss.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.TrackingCode != "" {
		return nil, models.NewValidationError("tracking_code", "order already has a shipment")
	}

	codAmount := decimal.Zero
	if order.PaymentMethod == models.PaymentMethodCOD {
		codAmount = order.SaleAmount
	}

	req := carrier.ShipmentRequest{
		Sender: ss.sender,
		Recipient: carrier.Address{
			Name:        order.Customer.Name,
			Street:      order.Customer.Street,
			HouseNumber: order.Customer.HouseNumber,
			City:        order.Customer.City,
			Province:    order.Customer.Province,
			PostalCode:  order.Customer.PostalCode,
			Phone:       order.Customer.Phone,
		},
		Parcel:    parcel,
		CODAmount: codAmount,
	}

	trackingCode, err := ss.client.CreateShipment(ctx, req)
	if err != nil {
		return nil, err
	}

	return ss.orders.Commit(ctx, orderID, OrderEdit{TrackingCode: &trackingCode}, actor)
}
