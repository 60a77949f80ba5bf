package service

import (
	"context"
	"time"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/notify"
	"github.com/google/uuid"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetOrdersByStatus returns all orders in the given status
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	// GetAllOrders returns the full order collection
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrder writes the mutable order fields back
	UpdateOrder(ctx context.Context, order *models.Order) error
}

// Notifier queues fire-and-forget order event notifications
type Notifier interface {
	OrderEvent(event string, order *models.Order)
}

// OrderEdit is one staff edit of an order. Nil fields are left untouched.
type OrderEdit struct {
	Status        *string
	TrackingCode  *string
	PaymentStatus *string
	Customer      *models.Customer
}

// statuses from which a freshly set tracking code auto-advances the order
// to SHIPPED within the same edit
var autoShipFrom = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusContacted: true,
	models.OrderStatusConfirmed: true,
	models.OrderStatusStockHold: true,
}

// OrderService owns the order status state machine
type OrderService struct {
	repo     OrderRepository
	notifier Notifier
	now      func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, notifier Notifier) *OrderService {
	return &OrderService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// GetOrder returns a single order by id
func (os *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id)
}

// Create registers a manually entered order, typically a phone-in COD sale.
// Absent fields default to a fresh PENDING cash-on-delivery order; the
// SHIPPED precondition applies here as on any commit.
func (os *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ProductID == "" {
		return nil, models.NewValidationError("product_id", "required")
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.ProductQuantity <= 0 {
		order.ProductQuantity = 1
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCOD
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	if !models.IsValidOrderStatus(order.Status) {
		return nil, models.NewValidationError("status", "unknown status "+order.Status)
	}
	if order.Status == models.OrderStatusShipped && order.TrackingCode == "" {
		return nil, models.NewValidationError("tracking_code", "required before order can be marked shipped")
	}

	order.StatusUpdatedAt = os.now()

	return os.repo.CreateOrder(ctx, order)
}

// ListOrders returns orders, optionally filtered by status
func (os *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status == "" {
		return os.repo.GetAllOrders(ctx)
	}
	return os.repo.GetOrdersByStatus(ctx, status)
}

// Commit validates and applies one staff edit atomically. The transition
// rule is permissive: any status may move to any other, with one hard
// precondition — SHIPPED requires a non-empty tracking code at commit time.
// Violations reject the whole edit; no partial field updates persist.
func (os *OrderService) Commit(ctx context.Context, orderID string, edit OrderEdit, actor auth.Actor) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Editable() {
		return nil, models.ErrOrderNotEditable
	}

	next := *order

	if edit.Status != nil {
		if !models.IsValidOrderStatus(*edit.Status) {
			return nil, models.NewValidationError("status", "unknown status "+*edit.Status)
		}
		next.Status = *edit.Status
	}
	if edit.TrackingCode != nil {
		next.TrackingCode = *edit.TrackingCode
	}
	if edit.PaymentStatus != nil {
		next.PaymentStatus = *edit.PaymentStatus
	}
	if edit.Customer != nil {
		next.Customer = *edit.Customer
	}

	// derived rule, applied before the precondition check: a tracking code
	// arriving in this edit while the order still awaits dispatch means it
	// shipped. A code already carried on the order does not re-trigger it.
	if edit.TrackingCode != nil && *edit.TrackingCode != "" && autoShipFrom[next.Status] {
		next.Status = models.OrderStatusShipped
	}

	if next.Status == models.OrderStatusShipped && next.TrackingCode == "" {
		return nil, models.NewValidationError("tracking_code", "required before order can be marked shipped")
	}

	next.StatusUpdatedAt = os.now()
	if actor.Role == models.RoleCustomerCare {
		next.LastContactedBy = actor.ID
		next.LastContactedByName = actor.Name
	}

	if err := os.repo.UpdateOrder(ctx, &next); err != nil {
		return nil, err
	}

	if next.Status == models.OrderStatusShipped && order.Status != models.OrderStatusShipped && os.notifier != nil {
		os.notifier.OrderEvent(notify.EventOrderShipped, &next)
	}

	return &next, nil
}
