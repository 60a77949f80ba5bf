package service

import (
	"context"
	"errors"
	"time"

	"github.com/affiway/backoffice/internal/logger"
	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentRepository is the durable idempotency index for payment events
type PaymentRepository interface {
	// OrderIDForPayment returns the order already materialized for the payment id
	OrderIDForPayment(ctx context.Context, paymentID string) (string, error)
	// CreateOrderForPayment inserts the order and records the payment id atomically
	CreateOrderForPayment(ctx context.Context, order *models.Order, paymentID string) (string, bool, error)
}

// ProductRepository reads product pricing and cost schedules
type ProductRepository interface {
	// GetProductByID returns the product with its cost schedule and bundles
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// IdempotencyCache is a best-effort fast path in front of the durable index
type IdempotencyCache interface {
	Get(ctx context.Context, paymentID string) (string, bool)
	Set(ctx context.Context, paymentID, orderID string)
}

// static fallback rates to the base currency, used when the gateway did not
// report an explicit settlement amount
var fallbackRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromFloat(0.92),
	"GBP": decimal.NewFromFloat(1.17),
	"CHF": decimal.NewFromFloat(1.04),
}

// PaymentService materializes orders from gateway payment events
type PaymentService struct {
	payments     PaymentRepository
	products     ProductRepository
	cache        IdempotencyCache
	notifier     Notifier
	baseCurrency string
	now          func() time.Time
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(payments PaymentRepository, products ProductRepository, cache IdempotencyCache, notifier Notifier, baseCurrency string) *PaymentService {
	return &PaymentService{
		payments:     payments,
		products:     products,
		cache:        cache,
		notifier:     notifier,
		baseCurrency: baseCurrency,
		now:          time.Now,
	}
}

// exchangeRate derives the effective rate to the base currency. An explicit
// settlement amount wins; otherwise the static fallback table applies, with
// the base currency itself at 1.0.
func (ps *PaymentService) exchangeRate(event *models.PaymentEvent) decimal.Decimal {
	if event.SettlementAmount.IsPositive() &&
		event.SettlementCurrency == ps.baseCurrency &&
		event.Amount.IsPositive() {
		return event.SettlementAmount.Div(event.Amount)
	}

	if event.Currency == ps.baseCurrency {
		return decimal.NewFromInt(1)
	}
	if rate, ok := fallbackRates[event.Currency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// resolvePricing applies bundle overrides: matched by bundle id first, then
// by quantity, first match wins. Without a bundle the product's card price
// and commission apply at quantity 1.
func resolvePricing(product *models.Product, md models.PaymentMetadata) (price, commission decimal.Decimal, quantity int) {
	if md.BundleID != "" {
		if b, ok := product.BundleByID(md.BundleID); ok {
			return b.Price, b.Commission, b.Quantity
		}
	}
	if md.Quantity > 0 {
		if b, ok := product.BundleByQuantity(md.Quantity); ok {
			return b.Price, b.Commission, b.Quantity
		}
	}
	return product.CardPrice, product.CardCommission, 1
}

// Ingest materializes exactly one order for the payment event. Delivery is
// at-least-once; reprocessing the same payment id returns the existing order
// id without side effects.
func (ps *PaymentService) Ingest(ctx context.Context, event *models.PaymentEvent) (string, error) {
	if orderID, ok := ps.cache.Get(ctx, event.PaymentID); ok {
		return orderID, nil
	}

	orderID, err := ps.payments.OrderIDForPayment(ctx, event.PaymentID)
	if err == nil {
		ps.cache.Set(ctx, event.PaymentID, orderID)
		return orderID, nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return "", err
	}

	product, err := ps.products.GetProductByID(ctx, event.Metadata.ProductID)
	if err != nil {
		return "", err
	}

	price, commission, quantity := resolvePricing(product, event.Metadata)
	if !price.IsPositive() {
		return "", models.ErrInvalidAmount
	}

	rate := ps.exchangeRate(event)

	// sale amount settles in base currency
	saleAmount := event.Amount.Mul(rate)
	if event.SettlementAmount.IsPositive() && event.SettlementCurrency == ps.baseCurrency {
		saleAmount = event.SettlementAmount
	}
	if !saleAmount.IsPositive() {
		return "", models.ErrInvalidAmount
	}

	// the commission recorded with the event scales by the same rate so
	// profit arithmetic stays coherent with the sale amount
	commissionAmount := commission
	if event.Metadata.Commission != "" {
		md, err := decimal.NewFromString(event.Metadata.Commission)
		if err != nil {
			return "", models.NewValidationError("commission", "not a decimal amount")
		}
		commissionAmount = md.Mul(rate)
	}

	order := &models.Order{
		ID:               uuid.NewString(),
		AffiliateID:      event.Metadata.AffiliateID,
		ProductID:        product.ID,
		ProductQuantity:  quantity,
		VariantSelection: event.Metadata.VariantSelection,
		PaymentMethod:    models.PaymentMethodCard,
		PaymentStatus:    models.PaymentStatusPaid,
		Status:           models.OrderStatusConfirmed,
		SaleAmount:       saleAmount,
		CommissionAmount: commissionAmount,
		Customer: models.Customer{
			Name:        event.Metadata.CustomerName,
			Street:      event.Metadata.Street,
			HouseNumber: event.Metadata.HouseNumber,
			City:        event.Metadata.City,
			Province:    event.Metadata.Province,
			PostalCode:  event.Metadata.PostalCode,
			Phone:       event.Metadata.Phone,
		},
		StatusUpdatedAt: ps.now(),
	}

	orderID, created, err := ps.payments.CreateOrderForPayment(ctx, order, event.PaymentID)
	if err != nil {
		return "", err
	}

	ps.cache.Set(ctx, event.PaymentID, orderID)

	if created {
		logger.Log.Info("order materialized from payment",
			zap.String("payment", event.PaymentID), zap.String("order", orderID))
		if ps.notifier != nil {
			ps.notifier.OrderEvent(notify.EventOrderConfirmed, order)
		}
	}

	return orderID, nil
}
