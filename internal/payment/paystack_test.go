// internal/payment/paystack_test.go
package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifyServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestPaystackVerifySuccess(t *testing.T) {
	server := newVerifyServer(t, http.StatusOK, `{
		"status": true,
		"message": "Verification successful",
		"data": {
			"status": "success",
			"amount": 10000,
			"currency": "GHS",
			"paid_at": "2025-03-01T10:15:00Z",
			"channel": "card",
			"customer": {"email": "ama@example.com"}
		}
	}`)
	defer server.Close()

	gateway := NewPaystackGateway(server.URL, "sk_test_secret")
	result, err := gateway.Verify(context.Background(), "PSK_REF_001")
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int64(10000), result.AmountMinor)
	assert.Equal(t, "GHS", result.Currency)
	assert.Equal(t, "card", result.Channel)
	assert.Equal(t, "ama@example.com", result.PayerEmail)
	assert.Equal(t, 2025, result.PaidAt.Year())
}

func TestPaystackVerifyFailedTransaction(t *testing.T) {
	server := newVerifyServer(t, http.StatusOK, `{
		"status": true,
		"message": "Verification successful",
		"data": {
			"status": "failed",
			"amount": 10000,
			"currency": "GHS",
			"channel": "card",
			"customer": {"email": "ama@example.com"}
		}
	}`)
	defer server.Close()

	gateway := NewPaystackGateway(server.URL, "sk_test_secret")
	result, err := gateway.Verify(context.Background(), "PSK_REF_002")
	require.NoError(t, err)

	assert.False(t, result.Succeeded)
	assert.Equal(t, "failed", result.Status)
}

func TestPaystackVerifyNotFound(t *testing.T) {
	server := newVerifyServer(t, http.StatusNotFound, `{"status": false, "message": "Transaction reference not found"}`)
	defer server.Close()

	gateway := NewPaystackGateway(server.URL, "sk_test_secret")
	result, err := gateway.Verify(context.Background(), "NO_SUCH_REF")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPaystackVerifyServerError(t *testing.T) {
	server := newVerifyServer(t, http.StatusInternalServerError, `{}`)
	defer server.Close()

	gateway := NewPaystackGateway(server.URL, "sk_test_secret")
	result, err := gateway.Verify(context.Background(), "PSK_REF_003")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTransactionNotFound)
}

func TestPaystackVerifyAPIRejection(t *testing.T) {
	server := newVerifyServer(t, http.StatusOK, `{"status": false, "message": "Invalid key"}`)
	defer server.Close()

	gateway := NewPaystackGateway(server.URL, "sk_test_secret")
	result, err := gateway.Verify(context.Background(), "PSK_REF_004")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}
