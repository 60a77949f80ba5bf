package service

import (
	"context"
	"testing"

	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaymentService(products map[string]*models.Product) (*PaymentService, *fakePaymentRepo, *recordingNotifier) {
	payments := newFakePaymentRepo()
	notifier := &recordingNotifier{}
	svc := NewPaymentService(payments, &fakeProductRepo{products: products},
		newFakeIdemCache(), notifier, "EUR")
	return svc, payments, notifier
}

func cardProduct() map[string]*models.Product {
	return map[string]*models.Product{
		"prod-1": {
			ID:             "prod-1",
			CardPrice:      dec("49.90"),
			CardCommission: dec("15.00"),
			Bundles: []models.Bundle{
				{ID: "bundle-2x", Quantity: 2, Price: dec("89.90"), Commission: dec("25.00")},
				{ID: "bundle-3x", Quantity: 3, Price: dec("119.90"), Commission: dec("32.00")},
			},
		},
	}
}

func baseEvent() *models.PaymentEvent {
	return &models.PaymentEvent{
		PaymentID: "pay-1",
		Amount:    dec("49.90"),
		Currency:  "EUR",
		Metadata: models.PaymentMetadata{
			ProductID:   "prod-1",
			AffiliateID: "aff-9",
			PostalCode:  "20100",
		},
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestIngest_CreatesConfirmedPaidCardOrder(t *testing.T) {
	svc, payments, notifier := testPaymentService(cardProduct())

	orderID, err := svc.Ingest(context.Background(), baseEvent())
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	order := payments.orders[orderID]
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCard, order.PaymentMethod)
	assert.Equal(t, 1, order.ProductQuantity)
	assert.Equal(t, "aff-9", order.AffiliateID)
	assert.True(t, order.SaleAmount.Equal(dec("49.90")))
	assert.Equal(t, []string{"order.confirmed"}, notifier.events)
}

func TestIngest_Idempotent(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	first, err := svc.Ingest(context.Background(), baseEvent())
	require.NoError(t, err)

	second, err := svc.Ingest(context.Background(), baseEvent())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, payments.orders, 1)
}

func TestIngest_IdempotentAcrossColdCache(t *testing.T) {
	// same durable index, fresh cache: the fast path misses, the
	// storage-layer check still wins
	payments := newFakePaymentRepo()
	products := &fakeProductRepo{products: cardProduct()}

	first := NewPaymentService(payments, products, newFakeIdemCache(), nil, "EUR")
	firstID, err := first.Ingest(context.Background(), baseEvent())
	require.NoError(t, err)

	second := NewPaymentService(payments, products, newFakeIdemCache(), nil, "EUR")
	secondID, err := second.Ingest(context.Background(), baseEvent())
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Len(t, payments.orders, 1)
}

func TestIngest_DerivedRateScalesCommission(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	event := baseEvent()
	event.Amount = dec("100")
	event.Currency = "USD"
	event.SettlementAmount = dec("92")
	event.SettlementCurrency = "EUR"
	event.Metadata.Commission = "10"

	orderID, err := svc.Ingest(context.Background(), event)
	require.NoError(t, err)

	order := payments.orders[orderID]
	assert.True(t, order.SaleAmount.Equal(dec("92")), "got %s", order.SaleAmount)
	assert.True(t, order.CommissionAmount.Equal(dec("9.20")), "got %s", order.CommissionAmount)
}

func TestIngest_FallbackRateWithoutSettlement(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	event := baseEvent()
	event.Amount = dec("100")
	event.Currency = "USD"
	event.Metadata.Commission = "10"

	orderID, err := svc.Ingest(context.Background(), event)
	require.NoError(t, err)

	order := payments.orders[orderID]
	assert.True(t, order.SaleAmount.Equal(dec("92")))
	assert.True(t, order.CommissionAmount.Equal(dec("9.2")))
}

func TestIngest_BundleByIDWins(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	event := baseEvent()
	event.Metadata.BundleID = "bundle-3x"
	// quantity would match the 2x bundle; the id match wins
	event.Metadata.Quantity = 2

	orderID, err := svc.Ingest(context.Background(), event)
	require.NoError(t, err)

	order := payments.orders[orderID]
	assert.Equal(t, 3, order.ProductQuantity)
	assert.True(t, order.CommissionAmount.Equal(dec("32.00")))
}

func TestIngest_BundleByQuantity(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	event := baseEvent()
	event.Metadata.Quantity = 2

	orderID, err := svc.Ingest(context.Background(), event)
	require.NoError(t, err)

	order := payments.orders[orderID]
	assert.Equal(t, 2, order.ProductQuantity)
	assert.True(t, order.CommissionAmount.Equal(dec("25.00")))
}

func TestIngest_UnknownProduct(t *testing.T) {
	svc, payments, notifier := testPaymentService(map[string]*models.Product{})

	_, err := svc.Ingest(context.Background(), baseEvent())

	assert.ErrorIs(t, err, models.ErrUnknownProduct)
	assert.Empty(t, payments.orders)
	assert.Empty(t, notifier.events)
}

func TestIngest_NonPositivePriceRejected(t *testing.T) {
	products := map[string]*models.Product{
		"prod-1": {ID: "prod-1", CardPrice: decimal.Zero},
	}
	svc, payments, _ := testPaymentService(products)

	_, err := svc.Ingest(context.Background(), baseEvent())

	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	assert.Empty(t, payments.orders)
}

func TestIngest_VariantsAndAddressRoundTrip(t *testing.T) {
	svc, payments, _ := testPaymentService(cardProduct())

	event := baseEvent()
	event.Metadata.VariantSelection = []string{"color-red", "size-m"}
	event.Metadata.CustomerName = "Mario Rossi"
	event.Metadata.Street = "Via Roma"
	event.Metadata.HouseNumber = "10"
	event.Metadata.City = "Milano"
	event.Metadata.Province = "MI"
	event.Metadata.Phone = "+39 333 1234567"

	orderID, err := svc.Ingest(context.Background(), event)
	require.NoError(t, err)

	order := payments.orders[orderID]
	assert.Equal(t, []string{"color-red", "size-m"}, order.VariantSelection)
	assert.Equal(t, "Mario Rossi", order.Customer.Name)
	assert.Equal(t, "Via Roma", order.Customer.Street)
	assert.Equal(t, "20100", order.Customer.PostalCode)
}
