package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	MaterialID string `json:"materialId" validate:"required,uuid4"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type VerifyPaymentResponse struct {
	Status      string `json:"status"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// CreatePaymentOrder opens a checkout order for a premium material. The
// charged amount always comes from the material row, never from the client.
func (s *Server) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Material id is required")
		return
	}
	material, err := s.fetchMaterial(req.MaterialID)
	if err != nil || material.Status != "published" {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	if !material.IsPremium || material.PriceCents <= 0 {
		WriteError(w, http.StatusBadRequest, "Material does not require payment")
		return
	}

	order, err := s.Payments.CreateOrder(r.Context(), material.PriceCents, material.Currency, material.ID)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Payment provider unavailable")
		return
	}

	var userID *string
	if current := CurrentUserID(r); current != "" {
		userID = &current
	}
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO purchases (id, material_id, user_id, user_ip, razorpay_order_id, amount_cents, currency, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,'created',$8,$8)
`, uuid.NewString(), material.ID, userID, resolveClientIP(r), order.ID, order.Amount, order.Currency, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.Payments.KeyID,
	})
}

// VerifyPayment checks the checkout signature. Only a verified signature
// marks the purchase paid and unlocks the download.
func (s *Server) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Order id, payment id and signature are required")
		return
	}
	row := struct {
		ID         string `db:"id"`
		MaterialID string `db:"material_id"`
		Status     string `db:"status"`
	}{}
	if err := s.DB.Get(&row, `
SELECT id, material_id, status FROM purchases WHERE razorpay_order_id = $1
`, strings.TrimSpace(req.OrderID)); err != nil {
		WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	now := time.Now().UTC()
	if !s.Payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		_, _ = s.DB.Exec(`
UPDATE purchases SET status = 'failed', razorpay_payment_id = $2, updated_at = $3 WHERE id = $1
`, row.ID, req.PaymentID, now)
		WriteError(w, http.StatusBadRequest, "Payment verification failed")
		return
	}
	_, err := s.DB.Exec(`
UPDATE purchases SET status = 'paid', razorpay_payment_id = $2, updated_at = $3 WHERE id = $1
`, row.ID, req.PaymentID, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, VerifyPaymentResponse{
		Status:      "paid",
		DownloadURL: "/api/public/materials/" + row.MaterialID + "/download",
	})
}
