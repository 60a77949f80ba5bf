// Package notify posts order events to an external webhook. Delivery is
// fire-and-forget: failures are drained into the log and never reach the
// operation that triggered the event.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/affiway/backoffice/internal/logger"
	"github.com/affiway/backoffice/internal/models"
	"go.uber.org/zap"
)

// event names carried in the envelope
const (
	EventOrderConfirmed = "order.confirmed"
	EventOrderShipped   = "order.shipped"
)

// Envelope is the outbound webhook payload.
type Envelope struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"order_id"`
	AffiliateID string    `json:"affiliate_id"`
	ProductID   string    `json:"product_id"`
	Status      string    `json:"status"`
	SaleAmount  string    `json:"sale_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier dispatches envelopes from a buffered channel on a single
// background goroutine. Errors flow to errCh and are logged, decoupled from
// the caller's result.
type Notifier struct {
	client     *http.Client
	webhookURL string
	sendCh     chan Envelope
	errCh      chan error
}

// New creates a Notifier. Run must be started for envelopes to leave the
// queue.
func New(webhookURL string) *Notifier {
	return &Notifier{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		webhookURL: webhookURL,
		sendCh:     make(chan Envelope, 64),
		errCh:      make(chan error, 64),
	}
}

// OrderEvent queues a notification for the order. Never blocks: when the
// queue is full the envelope is dropped and logged.
func (n *Notifier) OrderEvent(event string, order *models.Order) {
	if n.webhookURL == "" {
		return
	}

	env := Envelope{
		Event:       event,
		OrderID:     order.ID,
		AffiliateID: order.AffiliateID,
		ProductID:   order.ProductID,
		Status:      order.Status,
		SaleAmount:  order.SaleAmount.String(),
		Timestamp:   time.Now(),
	}

	select {
	case n.sendCh <- env:
	default:
		logger.Log.Warn("notification queue full, dropping event",
			zap.String("event", event), zap.String("order", order.ID))
	}
}

// Run consumes the queue until ctx is cancelled, draining send errors into
// the log sink.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("notifier is done")
			return
		case env := <-n.sendCh:
			if err := n.post(ctx, env); err != nil {
				n.errCh <- err
			}
		case err := <-n.errCh:
			logger.Log.Warn("webhook notification failed", zap.Error(err))
		}
	}
}

func (n *Notifier) post(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
