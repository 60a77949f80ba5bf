package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	order *models.Order
	err   error
}

func (s *stubOrderService) GetOrder(_ context.Context, _ string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOrders(_ context.Context, _ string) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrderService) Create(_ context.Context, _ *models.Order) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Commit(_ context.Context, _ string, _ service.OrderEdit, _ auth.Actor) (*models.Order, error) {
	return s.order, s.err
}

var testActor = &auth.Actor{ID: "staff-1", Name: "Anna", Role: models.RoleLogistics}

func testOrder() *models.Order {
	return &models.Order{
		ID:              "ord-1",
		ProductID:       "prod-1",
		ProductQuantity: 1,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusConfirmed,
		SaleAmount:      decimal.NewFromInt(59),
		StatusUpdatedAt: time.Now(),
	}
}

func patchOrder(h http.HandlerFunc, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/ord-1", strings.NewReader(body))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "ord-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if withActor {
		ctx = middleware.WithActor(ctx, testActor)
	}

	w := httptest.NewRecorder()
	h(w, req.WithContext(ctx))
	return w
}

func TestOrderHandler_UpdateOrder(t *testing.T) {
	tests := []struct {
		name           string
		svc            *stubOrderService
		body           string
		withActor      bool
		wantStatusCode int
	}{
		{
			name:           "valid_edit_returns_200",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"status":"CONTACTED"}`,
			withActor:      true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no_actor_returns_401",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"status":"CONTACTED"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "malformed_body_returns_400",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"status":`,
			withActor:      true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "validation_error_returns_422",
			svc:            &stubOrderService{err: models.NewValidationError("tracking_code", "required")},
			body:           `{"status":"SHIPPED"}`,
			withActor:      true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown_order_returns_404",
			svc:            &stubOrderService{err: models.ErrOrderNotFound},
			body:           `{"status":"CONTACTED"}`,
			withActor:      true,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "frozen_order_returns_409",
			svc:            &stubOrderService{err: models.ErrOrderNotEditable},
			body:           `{"status":"CONTACTED"}`,
			withActor:      true,
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(tt.svc)

			w := patchOrder(h.UpdateOrder(), tt.body, tt.withActor)

			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		svc            *stubOrderService
		body           string
		withActor      bool
		wantStatusCode int
	}{
		{
			name:           "valid_manual_entry_returns_201",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"product_id":"prod-1","sale_amount":"59.00"}`,
			withActor:      true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "no_actor_returns_401",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"product_id":"prod-1"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "bad_sale_amount_returns_400",
			svc:            &stubOrderService{order: testOrder()},
			body:           `{"product_id":"prod-1","sale_amount":"fifty-nine"}`,
			withActor:      true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_product_returns_422",
			svc:            &stubOrderService{err: models.NewValidationError("product_id", "required")},
			body:           `{}`,
			withActor:      true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(tt.svc)

			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			ctx := req.Context()
			if tt.withActor {
				ctx = middleware.WithActor(ctx, testActor)
			}

			w := httptest.NewRecorder()
			h.CreateOrder()(w, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{order: testOrder()})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "ord-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	w := httptest.NewRecorder()
	h.GetOrder()(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp OrderResp
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ord-1", resp.ID)
	assert.Equal(t, "59.00", resp.SaleAmount)
	assert.True(t, resp.Editable)
}

func TestOrderHandler_ListOrders_RejectsUnknownStatus(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{order: testOrder()})

	req := httptest.NewRequest(http.MethodGet, "/api/orders?status=BOGUS", nil)
	w := httptest.NewRecorder()
	h.ListOrders()(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
