// Package gateway looks up full payment detail from the payment provider.
// The inbound webhook only carries the payment id; everything else comes
// from this lookup.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
)

// Client represents HTTP client for payment-gateway requests
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates new gateway Client instance
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type paymentResponse struct {
	ID                 string                 `json:"id"`
	Amount             decimal.Decimal        `json:"amount"`
	Currency           string                 `json:"currency"`
	SettlementAmount   decimal.Decimal        `json:"settlement_amount"`
	SettlementCurrency string                 `json:"settlement_currency"`
	Metadata           models.PaymentMetadata `json:"metadata"`
}

// GetPayment fetches the payment detail for a webhook-delivered id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*models.PaymentEvent, error) {
	if c.apiKey == "" {
		return nil, models.ConfigurationError{Setting: "GATEWAY_API_KEY"}
	}

	// GET /api/payments/{id}
	u, err := url.JoinPath(c.baseURL, "api", "payments", paymentID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		payResp := paymentResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
			return nil, err
		}
		return &models.PaymentEvent{
			PaymentID:          payResp.ID,
			Amount:             payResp.Amount,
			Currency:           payResp.Currency,
			SettlementAmount:   payResp.SettlementAmount,
			SettlementCurrency: payResp.SettlementCurrency,
			Metadata:           payResp.Metadata,
			ReceivedAt:         time.Now(),
		}, nil
	case http.StatusNotFound:
		return nil, models.ErrDataNotFound
	default:
		return nil, models.UpstreamError{
			Service:    "gateway",
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= http.StatusInternalServerError,
		}
	}
}
