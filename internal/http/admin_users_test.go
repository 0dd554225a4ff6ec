package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDeleteUser(t *testing.T) {
	t.Run("refused while the user still authors materials", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
			WithArgs("creator-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		token := accessToken(t, s, "admin-1", "ADMIN")
		rec := doRequest(t, router, http.MethodDelete, "/api/admin/users/creator-1", token, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes a user without content", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs("user-2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		token := accessToken(t, s, "admin-1", "ADMIN")
		rec := doRequest(t, router, http.MethodDelete, "/api/admin/users/user-2", token, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("self deletion is refused", func(t *testing.T) {
		s, _ := newTestServer(t)
		router := s.Router(context.Background())

		token := accessToken(t, s, "admin-1", "ADMIN")
		rec := doRequest(t, router, http.MethodDelete, "/api/admin/users/admin-1", token, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("refused while the account still authors materials", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
			WithArgs("creator-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		token := accessToken(t, s, "creator-1", "CREATOR")
		rec := doRequest(t, router, http.MethodDelete, "/api/me/", token, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes an account without content", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT avatar_media_id FROM user_profiles`).
			WithArgs("user-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		token := accessToken(t, s, "user-1", "USER")
		rec := doRequest(t, router, http.MethodDelete, "/api/me/", token, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
