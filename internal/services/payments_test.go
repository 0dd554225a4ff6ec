package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signOrder(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewRazorpayClient("key_test", "secret_test", "http://unused")

	valid := signOrder("secret_test", "order_1", "pay_1")
	assert.True(t, client.VerifySignature("order_1", "pay_1", valid))

	assert.False(t, client.VerifySignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, client.VerifySignature("order_2", "pay_1", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_2", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_1", signOrder("other_secret", "order_1", "pay_1")))
	assert.False(t, client.VerifySignature("order_1", "pay_1", ""))
}

func TestCreateOrder(t *testing.T) {
	t.Run("sends basic auth and parses the order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key_test", user)
			assert.Equal(t, "secret_test", pass)
			assert.Equal(t, "/orders", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"order_abc","amount":49900,"currency":"INR","status":"created"}`))
		}))
		defer server.Close()

		client := NewRazorpayClient("key_test", "secret_test", server.URL)
		order, err := client.CreateOrder(context.Background(), 49900, "INR", "mat-1")
		require.NoError(t, err)
		assert.Equal(t, "order_abc", order.ID)
		assert.Equal(t, int64(49900), order.Amount)
		assert.Equal(t, "INR", order.Currency)
	})

	t.Run("upstream failure maps to a gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewRazorpayClient("key_test", "secret_test", server.URL)
		_, err := client.CreateOrder(context.Background(), 100, "INR", "mat-1")
		require.Error(t, err)
		var serviceErr ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, http.StatusBadGateway, serviceErr.Status)
	})

	t.Run("empty order id is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewRazorpayClient("key_test", "secret_test", server.URL)
		_, err := client.CreateOrder(context.Background(), 100, "INR", "mat-1")
		assert.Error(t, err)
	})
}
