package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/carrier"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ShipmentService books a carrier shipment for an order
type ShipmentService interface {
	CreateShipment(ctx context.Context, orderID string, parcel carrier.Parcel, actor auth.Actor) (*models.Order, error)
}

// ShipmentHandler represents HTTP handler for shipment requests
type ShipmentHandler struct {
	svc ShipmentService
}

// NewShipmentHandler creates new ShipmentHandler instance
func NewShipmentHandler(svc ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{svc: svc}
}

// ShipmentReq carries the parcel dimensions
type ShipmentReq struct {
	WeightKg string `json:"weight_kg"`
	LengthCm int    `json:"length_cm"`
	WidthCm  int    `json:"width_cm"`
	HeightCm int    `json:"height_cm"`
}

// CreateShipment books the parcel and commits the tracking code. Carrier
// failures return the full diagnostic payload so the operator can escalate
// with carrier support instead of staring at a generic error.
func (sh *ShipmentHandler) CreateShipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req ShipmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		weight, err := decimal.NewFromString(req.WeightKg)
		if err != nil || !weight.IsPositive() {
			http.Error(w, "invalid parcel weight", http.StatusBadRequest)
			return
		}

		parcel := carrier.Parcel{
			WeightKg: weight,
			LengthCm: req.LengthCm,
			WidthCm:  req.WidthCm,
			HeightCm: req.HeightCm,
		}

		order, err := sh.svc.CreateShipment(r.Context(), chi.URLParam(r, "id"), parcel, *actor)
		if err != nil {
			var validationErr models.ValidationError
			var upstreamErr models.UpstreamError
			var configErr models.ConfigurationError
			switch {
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusUnprocessableEntity)
			case errors.As(err, &upstreamErr):
				writeJSON(w, http.StatusBadGateway, map[string]string{
					"error":       "carrier rejected the shipment",
					"status_code": strconv.Itoa(upstreamErr.StatusCode),
					"body":        upstreamErr.Body,
					"outbound_ip": upstreamErr.OutboundIP,
					"retryable":   strconv.FormatBool(upstreamErr.Retryable),
				})
			case errors.As(err, &configErr):
				http.Error(w, configErr.Error(), http.StatusInternalServerError)
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toOrderResp(order))
	}
}
