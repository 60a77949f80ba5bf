package repository

import (
	"context"

	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/repository/postgres"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, affiliate_id, product_id, product_quantity, variant_selection,
							payment_method, payment_status, status, sale_amount, commission_amount, tracking_code,
							customer_name, customer_street, customer_house_number, customer_city, customer_province,
							customer_postal_code, customer_phone, status_updated_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`
	selectOrderByIDQuery = `
						SELECT id, affiliate_id, product_id, product_quantity, variant_selection,
							payment_method, payment_status, status, sale_amount, commission_amount, tracking_code,
							customer_name, customer_street, customer_house_number, customer_city, customer_province,
							customer_postal_code, customer_phone, last_contacted_by, last_contacted_by_name,
							status_updated_at, created_at
						FROM orders
						WHERE id = $1
`
	selectOrdersByStatusQuery = `
						SELECT id, affiliate_id, product_id, product_quantity, variant_selection,
							payment_method, payment_status, status, sale_amount, commission_amount, tracking_code,
							customer_name, customer_street, customer_house_number, customer_city, customer_province,
							customer_postal_code, customer_phone, last_contacted_by, last_contacted_by_name,
							status_updated_at, created_at
						FROM orders
						WHERE status = $1
						ORDER BY created_at DESC
`
	selectAllOrdersQuery = `
						SELECT id, affiliate_id, product_id, product_quantity, variant_selection,
							payment_method, payment_status, status, sale_amount, commission_amount, tracking_code,
							customer_name, customer_street, customer_house_number, customer_city, customer_province,
							customer_postal_code, customer_phone, last_contacted_by, last_contacted_by_name,
							status_updated_at, created_at
						FROM orders
						ORDER BY created_at DESC
`
	updateOrderQuery = `
						UPDATE orders
						SET status = $1, tracking_code = $2, payment_status = $3,
							customer_name = $4, customer_street = $5, customer_house_number = $6,
							customer_city = $7, customer_province = $8, customer_postal_code = $9,
							customer_phone = $10, last_contacted_by = $11, last_contacted_by_name = $12,
							status_updated_at = $13
						WHERE id = $14
`
)

// OrderRepository persists orders
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	order := models.Order{}
	err := row.Scan(&order.ID, &order.AffiliateID, &order.ProductID, &order.ProductQuantity,
		&order.VariantSelection, &order.PaymentMethod, &order.PaymentStatus, &order.Status,
		&order.SaleAmount, &order.CommissionAmount, &order.TrackingCode,
		&order.Customer.Name, &order.Customer.Street, &order.Customer.HouseNumber,
		&order.Customer.City, &order.Customer.Province, &order.Customer.PostalCode,
		&order.Customer.Phone, &order.LastContactedBy, &order.LastContactedByName,
		&order.StatusUpdatedAt, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	_, err := or.db.Exec(ctx, insertOrderQuery,
		order.ID, order.AffiliateID, order.ProductID, order.ProductQuantity, order.VariantSelection,
		order.PaymentMethod, order.PaymentStatus, order.Status, order.SaleAmount, order.CommissionAmount,
		order.TrackingCode, order.Customer.Name, order.Customer.Street, order.Customer.HouseNumber,
		order.Customer.City, order.Customer.Province, order.Customer.PostalCode, order.Customer.Phone,
		order.StatusUpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetOrdersByStatus returns all orders in the given status
func (or *OrderRepository) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByStatusQuery, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetAllOrders returns the full order collection
func (or *OrderRepository) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectAllOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrder writes the mutable order fields back. Last writer wins.
func (or *OrderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	cmd, err := or.db.Exec(ctx, updateOrderQuery,
		order.Status, order.TrackingCode, order.PaymentStatus,
		order.Customer.Name, order.Customer.Street, order.Customer.HouseNumber,
		order.Customer.City, order.Customer.Province, order.Customer.PostalCode,
		order.Customer.Phone, order.LastContactedBy, order.LastContactedByName,
		order.StatusUpdatedAt, order.ID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}
