package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/affiway/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPayment_DecodesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/pay-1", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"id": "pay-1",
			"amount": 100,
			"currency": "USD",
			"settlement_amount": 92,
			"settlement_currency": "EUR",
			"metadata": {
				"product_id": "prod-1",
				"affiliate_id": "aff-9",
				"quantity": 2,
				"commission": "10",
				"customer_name": "Mario Rossi",
				"postal_code": "20100"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")

	event, err := client.GetPayment(context.Background(), "pay-1")
	require.NoError(t, err)

	assert.Equal(t, "pay-1", event.PaymentID)
	assert.Equal(t, "USD", event.Currency)
	assert.True(t, event.Amount.IntPart() == 100)
	assert.Equal(t, "EUR", event.SettlementCurrency)
	assert.Equal(t, "prod-1", event.Metadata.ProductID)
	assert.Equal(t, 2, event.Metadata.Quantity)
	assert.Equal(t, "20100", event.Metadata.PostalCode)
}

func TestGetPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")

	_, err := client.GetPayment(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestGetPayment_MissingCredentialsFailsFast(t *testing.T) {
	client := NewClient("http://gateway.invalid", "")

	_, err := client.GetPayment(context.Background(), "pay-1")

	var configErr models.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestGetPayment_ServerErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")

	_, err := client.GetPayment(context.Background(), "pay-1")

	var upstreamErr models.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.True(t, upstreamErr.Retryable)
}
