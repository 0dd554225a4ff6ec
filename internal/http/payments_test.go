package httpapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPayment(t *testing.T) {
	t.Run("bad signature marks the purchase failed and unlocks nothing", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT id, material_id, status FROM purchases`).
			WithArgs("order_1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "material_id", "status"}).
				AddRow("pur-1", "mat-1", "created"))
		mock.ExpectExec(`UPDATE purchases SET status = 'failed'`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := `{"orderId":"order_1","paymentId":"pay_1","signature":"forged"}`
		rec := doRequest(t, router, http.MethodPost, "/api/public/payments/verify", "", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), "downloadUrl")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("valid signature marks it paid and returns the download url", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT id, material_id, status FROM purchases`).
			WithArgs("order_1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "material_id", "status"}).
				AddRow("pur-1", "mat-1", "created"))
		mock.ExpectExec(`UPDATE purchases SET status = 'paid'`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		signature := checkoutSignature("secret_test", "order_1", "pay_1")
		body := `{"orderId":"order_1","paymentId":"pay_1","signature":"` + signature + `"}`
		rec := doRequest(t, router, http.MethodPost, "/api/public/payments/verify", "", body)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp VerifyPaymentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "paid", resp.Status)
		assert.Equal(t, "/api/public/materials/mat-1/download", resp.DownloadURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT id, material_id, status FROM purchases`).
			WithArgs("order_missing").
			WillReturnError(sql.ErrNoRows)

		body := `{"orderId":"order_missing","paymentId":"pay_1","signature":"x"}`
		rec := doRequest(t, router, http.MethodPost, "/api/public/payments/verify", "", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		s, _ := newTestServer(t)
		router := s.Router(context.Background())

		rec := doRequest(t, router, http.MethodPost, "/api/public/payments/verify", "", `{"orderId":"order_1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
