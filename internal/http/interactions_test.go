package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectPublishedMaterial(mock sqlmock.Sqlmock, id string) {
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, title, description`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category", "content_type", "file_type", "author_id",
			"price_cents", "currency", "is_premium", "is_featured",
			"tags", "software_compatibility", "downloads_count", "status", "created_at", "updated_at",
		}).AddRow(
			id, "Landing Page", "starter", "html-css", "text/html", "zip", "author-1",
			int64(0), "INR", false, false,
			[]byte("[]"), []byte("[]"), int64(0), "published", now, now,
		))
}

func TestCreateInteraction(t *testing.T) {
	t.Run("duplicate like is a conflict", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		expectPublishedMaterial(mock, "mat-1")
		mock.ExpectExec(`INSERT INTO interactions`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-1/interactions", "", `{"interactionType":"like"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous like is attributed to the ip", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		expectPublishedMaterial(mock, "mat-1")
		mock.ExpectExec(`INSERT INTO interactions`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-1/interactions", "", `{"interactionType":"like"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var created InteractionDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "like", created.InteractionType)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("like drops stray comment and rating fields", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		expectPublishedMaterial(mock, "mat-1")
		mock.ExpectExec(`INSERT INTO interactions`).
			WithArgs(sqlmock.AnyArg(), "mat-1", "like", nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := `{"interactionType":"like","commentText":"smuggled","ratingValue":5}`
		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-1/interactions", "", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var created InteractionDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Nil(t, created.CommentText)
		assert.Nil(t, created.RatingValue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rating drops a stray comment", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		expectPublishedMaterial(mock, "mat-1")
		mock.ExpectExec(`INSERT INTO interactions`).
			WithArgs(sqlmock.AnyArg(), "mat-1", "rating", nil, 4, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := `{"interactionType":"rating","ratingValue":4,"commentText":"smuggled"}`
		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-1/interactions", "", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rating out of range is rejected before insert", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		expectPublishedMaterial(mock, "mat-1")

		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-1/interactions", "", `{"interactionType":"rating","ratingValue":9}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unpublished material is invisible", func(t *testing.T) {
		s, mock := newTestServer(t)
		router := s.Router(context.Background())

		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT id, title, description`).
			WithArgs("mat-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
				AddRow("mat-2", "draft", now, now))

		rec := doRequest(t, router, http.MethodPost, "/api/public/materials/mat-2/interactions", "", `{"interactionType":"like"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMaterialInteractionsStats(t *testing.T) {
	s, mock := newTestServer(t)
	router := s.Router(context.Background())

	now := time.Now().UTC()
	expectPublishedMaterial(mock, "mat-1")
	mock.ExpectQuery(`SELECT id, material_id, interaction_type`).
		WithArgs("mat-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "material_id", "interaction_type", "rating_value", "user_ip", "created_at"}).
			AddRow("i1", "mat-1", "like", nil, "1.2.3.4", now).
			AddRow("i2", "mat-1", "like", nil, "1.2.3.5", now).
			AddRow("i3", "mat-1", "rating", 4, "1.2.3.4", now).
			AddRow("i4", "mat-1", "rating", 2, "1.2.3.5", now))

	rec := doRequest(t, router, http.MethodGet, "/api/public/materials/mat-1/interactions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InteractionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.Likes)
	assert.Equal(t, 2, resp.Stats.TotalRatings)
	assert.InDelta(t, 3.0, resp.Stats.AverageRating, 1e-9)
	assert.Len(t, resp.Items, 4)
}
