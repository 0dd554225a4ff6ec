package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"codemart-backend-go/internal/config"
	"codemart-backend-go/internal/services"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "codemart",
		AccessTTLSeconds:  3600,
		RefreshTTLSeconds: 7200,
		RazorpayKeyID:     "key_test",
		RazorpaySecret:    "secret_test",
	}
	return NewServer(sqlxDB, cfg, services.NewEventHub(), services.NewMetricsHub(), nil), mock
}

func accessToken(t *testing.T, s *Server, userID string, roles ...string) string {
	token, _, err := s.Tokens.CreateAccessToken(userID, userID+"@example.com", roles)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
