package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RazorpayClient talks to the Razorpay orders API. Amount authority stays
// server-side: callers pass the material price, never a client-supplied value.
type RazorpayClient struct {
	KeyID      string
	Secret     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewRazorpayClient(keyID, secret, baseURL string) *RazorpayClient {
	return &RazorpayClient{
		KeyID:      keyID,
		Secret:     secret,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (RazorpayOrder, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
		"receipt":  receipt,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return RazorpayOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.Secret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return RazorpayOrder{}, ErrUpstream("Payment provider unavailable")
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RazorpayOrder{}, ErrUpstream(fmt.Sprintf("Payment provider returned %d", resp.StatusCode))
	}
	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return RazorpayOrder{}, ErrUpstream("Payment provider returned an invalid order")
	}
	if order.ID == "" {
		return RazorpayOrder{}, ErrUpstream("Payment provider returned an empty order id")
	}
	return order, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(orderID|paymentID, secret), hex encoded, compared in constant time.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
