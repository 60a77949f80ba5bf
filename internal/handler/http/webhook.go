package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/affiway/backoffice/internal/logger"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"go.uber.org/zap"
)

// GatewayClient fetches full payment detail for a webhook-delivered id
type GatewayClient interface {
	GetPayment(ctx context.Context, paymentID string) (*models.PaymentEvent, error)
}

// PaymentIngestor materializes an order from a payment event
type PaymentIngestor interface {
	Ingest(ctx context.Context, event *models.PaymentEvent) (string, error)
}

// WebhookHandler represents HTTP handler for inbound payment webhooks
type WebhookHandler struct {
	gateway GatewayClient
	svc     PaymentIngestor
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(gateway GatewayClient, svc PaymentIngestor) *WebhookHandler {
	return &WebhookHandler{gateway: gateway, svc: svc}
}

// PaymentWebhook receives the form-encoded payment id, fetches the full
// detail from the gateway and ingests it. The response is 200 in every
// case, including internal failures: a non-200 would put the gateway into
// an infinite retry loop on a poison message. Errors live in the log only.
func (wh *WebhookHandler) PaymentWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// always acknowledge; the handler never propagates failure upstream
		defer w.WriteHeader(http.StatusOK)

		if err := r.ParseForm(); err != nil {
			logger.Log.Error("webhook form parse failed", zap.Error(err))
			return
		}

		paymentID := r.PostFormValue("id")
		if paymentID == "" {
			logger.Log.Warn("webhook without payment id")
			return
		}

		event, err := wh.gateway.GetPayment(r.Context(), paymentID)
		if err != nil {
			middleware.RecordPaymentIngest("rejected")
			logger.Log.Error("payment lookup failed", zap.String("payment", paymentID), zap.Error(err))
			return
		}

		orderID, err := wh.svc.Ingest(r.Context(), event)
		if err != nil {
			middleware.RecordPaymentIngest("rejected")
			switch {
			case errors.Is(err, models.ErrUnknownProduct):
				logger.Log.Error("payment references unknown product", zap.String("payment", paymentID))
			case errors.Is(err, models.ErrInvalidAmount):
				logger.Log.Error("payment with non-positive amount", zap.String("payment", paymentID))
			default:
				logger.Log.Error("payment ingestion failed", zap.String("payment", paymentID), zap.Error(err))
			}
			return
		}

		middleware.RecordPaymentIngest("accepted")
		logger.Log.Info("payment ingested", zap.String("payment", paymentID), zap.String("order", orderID))
	}
}
