package repository

import (
	"context"

	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertPaymentEventQuery = `
						INSERT INTO payment_events (payment_id, order_id)
						VALUES ($1, $2)
`
	selectPaymentEventQuery = `
						SELECT order_id FROM payment_events
						WHERE payment_id = $1
`
)

// PaymentRepository is the durable index of processed payment events. The
// primary key on payment_id is the idempotency boundary: two concurrent
// deliveries of the same event cannot both insert.
type PaymentRepository struct {
	db *postgres.DB
}

// NewPaymentRepository creates new PaymentRepository instance
func NewPaymentRepository(db *postgres.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// OrderIDForPayment returns the order already materialized for the payment
// id, or models.ErrDataNotFound.
func (pr *PaymentRepository) OrderIDForPayment(ctx context.Context, paymentID string) (string, error) {
	var orderID string
	err := pr.db.QueryRow(ctx, selectPaymentEventQuery, paymentID).Scan(&orderID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return "", models.ErrDataNotFound
		}
		return "", err
	}

	return orderID, nil
}

// CreateOrderForPayment inserts the order and records the payment id in one
// transaction. On a payment_id collision nothing is written and the order id
// of the earlier insert is returned with created=false.
func (pr *PaymentRepository) CreateOrderForPayment(ctx context.Context, order *models.Order, paymentID string) (string, bool, error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertOrderQuery,
		order.ID, order.AffiliateID, order.ProductID, order.ProductQuantity, order.VariantSelection,
		order.PaymentMethod, order.PaymentStatus, order.Status, order.SaleAmount, order.CommissionAmount,
		order.TrackingCode, order.Customer.Name, order.Customer.Street, order.Customer.HouseNumber,
		order.Customer.City, order.Customer.Province, order.Customer.PostalCode, order.Customer.Phone,
		order.StatusUpdatedAt)
	if err != nil {
		return "", false, err
	}

	_, err = tx.Exec(ctx, insertPaymentEventQuery, paymentID, order.ID)
	if err != nil {
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			// lost the race: another delivery of the same event won
			var existingID string
			if scanErr := pr.db.QueryRow(ctx, selectPaymentEventQuery, paymentID).Scan(&existingID); scanErr != nil {
				return "", false, scanErr
			}
			return existingID, false, nil
		}
		return "", false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", false, err
	}

	return order.ID, true, nil
}
