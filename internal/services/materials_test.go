package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []MaterialSearchRow {
	return []MaterialSearchRow{
		{ID: "1", Title: "React Dashboard", Description: "Admin template", Category: "react", Author: "Ana", Tags: []string{"dashboard", "admin"}},
		{ID: "2", Title: "Landing Page", Description: "HTML and CSS starter", Category: "html-css", Author: "Bogdan", Tags: []string{"landing"}},
		{ID: "3", Title: "Sorting Visualizer", Description: "Algorithms in JS", Category: "javascript", Author: "Ana", SoftwareCompatibility: []string{"VS Code"}},
		{ID: "4", Title: "Figma Icons", Description: "Icon pack", Category: "design", Author: "Carmen", FileType: "fig"},
		{ID: "5", Title: "Character Rig", Description: "Rigged model", Category: "design", Author: "Dan", FileType: "fig"},
	}
}

func TestFilterMaterials(t *testing.T) {
	rows := sampleRows()

	t.Run("empty query returns everything", func(t *testing.T) {
		out := FilterMaterials(rows, "", "")
		assert.Equal(t, rows, out)
	})

	t.Run("result is a subset of the input", func(t *testing.T) {
		out := FilterMaterials(rows, "ana", "")
		byID := map[string]bool{}
		for _, row := range rows {
			byID[row.ID] = true
		}
		for _, row := range out {
			assert.True(t, byID[row.ID])
		}
		assert.Len(t, out, 2)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := FilterMaterials(rows, "template", "")
		twice := FilterMaterials(once, "template", "")
		assert.Equal(t, once, twice)
	})

	t.Run("case insensitive across fields", func(t *testing.T) {
		assert.Len(t, FilterMaterials(rows, "DASHBOARD", ""), 1)
		assert.Len(t, FilterMaterials(rows, "vs code", ""), 1)
		assert.Len(t, FilterMaterials(rows, "fig", ""), 2) // Figma title, fig file type on row 5
	})

	t.Run("category intersects with query", func(t *testing.T) {
		out := FilterMaterials(rows, "ana", "react")
		require.Len(t, out, 1)
		assert.Equal(t, "1", out[0].ID)

		assert.Empty(t, FilterMaterials(rows, "ana", "design"))
	})

	t.Run("no match on unknown term", func(t *testing.T) {
		assert.Empty(t, FilterMaterials(rows, "zzzzz", ""))
	})
}

func TestClassifyMaterial(t *testing.T) {
	code := "<div></div>"
	empty := "   "

	assert.Equal(t, VariantCode, ClassifyMaterial("pdf", "application/pdf", &code, nil, nil))
	assert.Equal(t, VariantPDF, ClassifyMaterial("pdf", "", nil, nil, nil))
	assert.Equal(t, VariantPDF, ClassifyMaterial("", "application/pdf", nil, &empty, nil))
	assert.Equal(t, VariantVideo, ClassifyMaterial("mp4", "", nil, nil, nil))
	assert.Equal(t, VariantVideo, ClassifyMaterial("", "video/webm", nil, nil, nil))
	assert.Equal(t, VariantGeneric, ClassifyMaterial("zip", "application/zip", nil, nil, nil))
}

func TestCleanTags(t *testing.T) {
	out := CleanTags([]string{" react ", "react", "", "  ", "css"})
	assert.Equal(t, []string{"react", "css"}, out)

	many := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		many = append(many, string(rune('a'+i)))
	}
	assert.Len(t, CleanTags(many), 12)
}

func TestCleanSearchTerm(t *testing.T) {
	assert.Equal(t, "react admin panel", CleanSearchTerm("  react   admin\tpanel "))
	assert.Equal(t, "", CleanSearchTerm("   "))
}

func TestListPublishedMaterialsRetriesTimeouts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	var slept []time.Duration
	retrySleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { retrySleep = time.Sleep })

	// two timeout failures, then success
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, title`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow("m1", "Landing Page", "published"))

	page, err := ListPublishedMaterials(sqlxDB, MaterialListOptions{Category: "html-css", Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "m1", page.Items[0].ID)

	require.Len(t, slept, 2)
	assert.Equal(t, time.Second, slept[0])
	assert.Equal(t, 2*time.Second, slept[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedMaterialsDoesNotRetryOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	retrySleep = func(time.Duration) { t.Fatal("should not sleep") }
	t.Cleanup(func() { retrySleep = time.Sleep })

	boom := errors.New("syntax error")
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).WillReturnError(boom)

	_, err = ListPublishedMaterials(sqlxDB, MaterialListOptions{Category: "react"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedMaterialsAllowListFallback(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	// allow-list pass finds nothing in total, so the unrestricted set is served
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, title`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM materials`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, title`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow("m1", "Figma Icons").
			AddRow("m2", "Notion Planner"))

	page, err := ListPublishedMaterials(sqlxDB, MaterialListOptions{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTimeoutError(t *testing.T) {
	assert.True(t, IsTimeoutError(context.DeadlineExceeded))
	assert.True(t, IsTimeoutError(errors.New("i/o timeout")))
	assert.False(t, IsTimeoutError(errors.New("syntax error")))
	assert.False(t, IsTimeoutError(nil))
}
