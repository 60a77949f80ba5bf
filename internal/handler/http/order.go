package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderService is the state machine commit surface used by the handlers
type OrderService interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Commit(ctx context.Context, orderID string, edit service.OrderEdit, actor auth.Actor) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// CustomerResp mirrors the customer address block on the wire
type CustomerResp struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
}

// OrderResp is the wire representation of an order
type OrderResp struct {
	ID               string       `json:"id"`
	AffiliateID      string       `json:"affiliate_id"`
	ProductID        string       `json:"product_id"`
	ProductQuantity  int          `json:"product_quantity"`
	VariantSelection []string     `json:"variant_selection"`
	PaymentMethod    string       `json:"payment_method"`
	PaymentStatus    string       `json:"payment_status"`
	Status           string       `json:"status"`
	SaleAmount       string       `json:"sale_amount"`
	CommissionAmount string       `json:"commission_amount"`
	TrackingCode     string       `json:"tracking_code,omitempty"`
	Customer         CustomerResp `json:"customer"`
	Editable         bool         `json:"editable"`
	StatusUpdatedAt  string       `json:"status_updated_at"`
}

func toOrderResp(order *models.Order) OrderResp {
	return OrderResp{
		ID:               order.ID,
		AffiliateID:      order.AffiliateID,
		ProductID:        order.ProductID,
		ProductQuantity:  order.ProductQuantity,
		VariantSelection: order.VariantSelection,
		PaymentMethod:    order.PaymentMethod,
		PaymentStatus:    order.PaymentStatus,
		Status:           order.Status,
		SaleAmount:       order.SaleAmount.StringFixed(2),
		CommissionAmount: order.CommissionAmount.StringFixed(2),
		TrackingCode:     order.TrackingCode,
		Customer:         CustomerResp(order.Customer),
		Editable:         order.Editable(),
		StatusUpdatedAt:  order.StatusUpdatedAt.Format(time.RFC3339),
	}
}

// OrderCreateReq is a manually entered order; absent fields take the
// defaults of a fresh COD sale
type OrderCreateReq struct {
	ProductID        string       `json:"product_id"`
	ProductQuantity  int          `json:"product_quantity"`
	VariantSelection []string     `json:"variant_selection"`
	PaymentMethod    string       `json:"payment_method"`
	SaleAmount       string       `json:"sale_amount"`
	Customer         CustomerResp `json:"customer"`
}

// OrderEditReq is one staff edit; absent fields are left untouched
type OrderEditReq struct {
	Status        *string       `json:"status"`
	TrackingCode  *string       `json:"tracking_code"`
	PaymentStatus *string       `json:"payment_status"`
	Customer      *CustomerResp `json:"customer"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// GetOrder returns a single order
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := oh.svc.GetOrder(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, models.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResp(order))
	}
}

// ListOrders returns the order collection, optionally filtered by status
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		if status != "" && !models.IsValidOrderStatus(status) {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}

		orders, err := oh.svc.ListOrders(r.Context(), status)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]OrderResp, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResp(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// CreateOrder registers a manually entered order
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.ActorFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req OrderCreateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		saleAmount := decimal.Zero
		if req.SaleAmount != "" {
			var err error
			if saleAmount, err = decimal.NewFromString(req.SaleAmount); err != nil {
				http.Error(w, "invalid sale amount", http.StatusBadRequest)
				return
			}
		}

		order, err := oh.svc.Create(r.Context(), &models.Order{
			ProductID:        req.ProductID,
			ProductQuantity:  req.ProductQuantity,
			VariantSelection: req.VariantSelection,
			PaymentMethod:    req.PaymentMethod,
			SaleAmount:       saleAmount,
			Customer:         models.Customer(req.Customer),
		})
		if err != nil {
			var validationErr models.ValidationError
			switch {
			case errors.As(err, &validationErr):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error": validationErr.Error(),
					"field": validationErr.Field,
				})
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "order already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toOrderResp(order))
	}
}

// UpdateOrder commits one staff edit through the state machine
func (oh *OrderHandler) UpdateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req OrderEditReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		edit := service.OrderEdit{
			Status:        req.Status,
			TrackingCode:  req.TrackingCode,
			PaymentStatus: req.PaymentStatus,
		}
		if req.Customer != nil {
			customer := models.Customer(*req.Customer)
			edit.Customer = &customer
		}

		order, err := oh.svc.Commit(r.Context(), chi.URLParam(r, "id"), edit, *actor)
		if err != nil {
			var validationErr models.ValidationError
			switch {
			case errors.As(err, &validationErr):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error": validationErr.Error(),
					"field": validationErr.Field,
				})
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderNotEditable):
				http.Error(w, "order is frozen", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toOrderResp(order))
	}
}
