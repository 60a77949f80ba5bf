// Package carrier creates shipments with the logistics carrier. Field
// limits are enforced before transmission; the carrier is never relied on
// to reject oversized fields.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/affiway/backoffice/internal/models"
	"github.com/shopspring/decimal"
)

// carrier wire format limits
const (
	maxLineLen     = 35
	provinceLen    = 2
	postalCodeLen  = 5
	maxBodySnippet = 512
	requestTimeout = 10 * time.Second
)

// Address is a normalized sender or recipient block.
type Address struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
}

// Parcel carries the physical dimensions of the shipment.
type Parcel struct {
	WeightKg decimal.Decimal `json:"weight_kg"`
	LengthCm int             `json:"length_cm"`
	WidthCm  int             `json:"width_cm"`
	HeightCm int             `json:"height_cm"`
}

// ShipmentRequest is the outbound carrier payload.
type ShipmentRequest struct {
	Sender    Address         `json:"sender"`
	Recipient Address         `json:"recipient"`
	Parcel    Parcel          `json:"parcel"`
	CODAmount decimal.Decimal `json:"cod_amount"`
}

type shipmentResponse struct {
	TrackingCode string `json:"tracking_code"`
}

// Client represents HTTP client for carrier shipment requests
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	// reported by the carrier support team when whitelisting
	outboundIP string
}

// NewClient creates new carrier Client instance
func NewClient(baseURL, apiKey, outboundIP string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:    baseURL,
		apiKey:     apiKey,
		outboundIP: outboundIP,
	}
}

func validateAddress(field string, a Address) error {
	if len(a.Name) > maxLineLen {
		return models.NewValidationError(field+".name", "longer than 35 characters")
	}
	if len(a.Street)+len(a.HouseNumber) > maxLineLen {
		return models.NewValidationError(field+".street", "longer than 35 characters")
	}
	if len(a.City) > maxLineLen {
		return models.NewValidationError(field+".city", "longer than 35 characters")
	}
	if len(a.Province) != provinceLen {
		return models.NewValidationError(field+".province", "must be a 2-letter code")
	}
	if len(a.PostalCode) != postalCodeLen {
		return models.NewValidationError(field+".postal_code", "must be 5 digits")
	}
	return nil
}

// CreateShipment books a shipment and returns the carrier tracking code.
// On carrier rejection the full diagnostic payload is returned for manual
// escalation with carrier support.
func (c *Client) CreateShipment(ctx context.Context, req ShipmentRequest) (string, error) {
	if c.apiKey == "" {
		return "", models.ConfigurationError{Setting: "CARRIER_API_KEY"}
	}

	if err := validateAddress("sender", req.Sender); err != nil {
		return "", err
	}
	if err := validateAddress("recipient", req.Recipient); err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipments", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// timeout or connection failure: retryable, nothing committed
		return "", models.UpstreamError{
			Service:    "carrier",
			Body:       err.Error(),
			OutboundIP: c.outboundIP,
			Retryable:  true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		return "", models.UpstreamError{
			Service:    "carrier",
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			OutboundIP: c.outboundIP,
			Retryable:  resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	shipResp := shipmentResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&shipResp); err != nil {
		return "", err
	}

	return shipResp.TrackingCode, nil
}
