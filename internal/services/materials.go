package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"codemart-backend-go/internal/models"
)

// MaterialVariant tells the frontend which detail view a material needs.
// Computed once at fetch time instead of field-sniffing in every consumer.
type MaterialVariant string

const (
	VariantCode    MaterialVariant = "code"
	VariantPDF     MaterialVariant = "pdf"
	VariantVideo   MaterialVariant = "video"
	VariantGeneric MaterialVariant = "generic"
)

func ClassifyMaterial(fileType, contentType string, htmlCode, cssCode, jsCode *string) MaterialVariant {
	if hasText(htmlCode) || hasText(cssCode) || hasText(jsCode) {
		return VariantCode
	}
	ft := strings.ToLower(strings.TrimSpace(fileType))
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case ft == "pdf" || strings.Contains(ct, "pdf"):
		return VariantPDF
	case ft == "mp4" || ft == "webm" || ft == "mov" || strings.Contains(ct, "video"):
		return VariantVideo
	default:
		return VariantGeneric
	}
}

func hasText(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}

// CodingCategories is the allow-list the public catalog tries first before
// falling back to every published material.
var CodingCategories = []string{
	"html-css",
	"javascript",
	"react",
	"python",
	"web-templates",
	"code-snippets",
	"coding",
}

// MaterialSearchRow is the projection the free-text filter runs over.
type MaterialSearchRow struct {
	ID                    string
	Title                 string
	Description           string
	Category              string
	Author                string
	ContentType           string
	FileType              string
	Tags                  []string
	SoftwareCompatibility []string
}

// FilterMaterials returns the rows where at least one searchable field
// case-insensitively contains query, intersected with an exact category match
// when category is non-empty. An empty query matches everything. The function
// is pure and idempotent.
func FilterMaterials(items []MaterialSearchRow, query, category string) []MaterialSearchRow {
	q := strings.ToLower(strings.TrimSpace(query))
	cat := strings.TrimSpace(category)
	out := make([]MaterialSearchRow, 0, len(items))
	for _, item := range items {
		if cat != "" && item.Category != cat {
			continue
		}
		if q != "" && !matchesQuery(item, q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item MaterialSearchRow, q string) bool {
	fields := []string{item.Title, item.Description, item.Category, item.Author, item.ContentType, item.FileType}
	fields = append(fields, item.Tags...)
	fields = append(fields, item.SoftwareCompatibility...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func CleanTags(tags []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.TrimSpace(tag)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
		if len(cleaned) >= 12 {
			break
		}
	}
	return cleaned
}

func NormalizeRequired(value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.New(message)
	}
	return trimmed, nil
}

func CleanSearchTerm(term string) string {
	re := regexp.MustCompile(`\s+`)
	cleaned := strings.TrimSpace(term)
	cleaned = re.ReplaceAllString(cleaned, " ")
	return cleaned
}

type MaterialListOptions struct {
	Featured *bool
	Category string
	Page     int
	Limit    int
}

type MaterialPage struct {
	Items     []models.Material
	Total     int
	Page      int
	PageCount int
}

const (
	listRetryAttempts = 3
	listRetryStep     = time.Second
)

// retrySleep is swapped out in tests.
var retrySleep = time.Sleep

// ListPublishedMaterials serves the public catalog: published rows ordered by
// creation time descending. When no category is requested the query is first
// restricted to the coding allow-list; if that yields zero rows in total the
// unrestricted published set is returned instead. The total count drives the
// fallback so every page of one listing sees the same underlying set.
// Timeout-class failures are retried with linear backoff.
func ListPublishedMaterials(db *sqlx.DB, opts MaterialListOptions) (MaterialPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 12
	}

	if opts.Category == "" {
		page, err := listWithRetry(db, opts, CodingCategories)
		if err != nil {
			return MaterialPage{}, err
		}
		if page.Total > 0 {
			return page, nil
		}
	}
	return listWithRetry(db, opts, nil)
}

func listWithRetry(db *sqlx.DB, opts MaterialListOptions, categories []string) (MaterialPage, error) {
	var page MaterialPage
	var err error
	for attempt := 1; attempt <= listRetryAttempts; attempt++ {
		page, err = listPublished(db, opts, categories)
		if err == nil {
			return page, nil
		}
		if !IsTimeoutError(err) || attempt == listRetryAttempts {
			return MaterialPage{}, err
		}
		retrySleep(time.Duration(attempt) * listRetryStep)
	}
	return MaterialPage{}, err
}

func listPublished(db *sqlx.DB, opts MaterialListOptions, categories []string) (MaterialPage, error) {
	where := "WHERE status = 'published'"
	args := []interface{}{}
	if opts.Category != "" {
		args = append(args, opts.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	} else if len(categories) > 0 {
		placeholders := make([]string, 0, len(categories))
		for _, category := range categories {
			args = append(args, category)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where += " AND category IN (" + strings.Join(placeholders, ",") + ")"
	}
	if opts.Featured != nil {
		args = append(args, *opts.Featured)
		where += fmt.Sprintf(" AND is_featured = $%d", len(args))
	}

	var total int
	if err := db.Get(&total, "SELECT count(*) FROM materials "+where, args...); err != nil {
		return MaterialPage{}, err
	}

	offset := (opts.Page - 1) * opts.Limit
	args = append(args, opts.Limit, offset)
	query := fmt.Sprintf(`
SELECT id, title, description, category, content_type, file_type, author_id,
       file_media_id, thumbnail_media_id, price_cents, currency, is_premium, is_featured,
       tags, software_compatibility, downloads_count, html_code, css_code, js_code,
       introduction, status, created_at, updated_at
FROM materials
%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows := []models.Material{}
	if err := db.Select(&rows, query, args...); err != nil {
		return MaterialPage{}, err
	}
	pageCount := 0
	if total > 0 {
		pageCount = (total + opts.Limit - 1) / opts.Limit
	}
	return MaterialPage{Items: rows, Total: total, Page: opts.Page, PageCount: pageCount}, nil
}

// IsTimeoutError reports whether err looks transient enough to retry.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// query_canceled, admin_shutdown, crash_shutdown, cannot_connect_now
		switch pgErr.Code {
		case "57014", "57P01", "57P02", "57P03":
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// IsUniqueViolation reports a duplicate-key insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
