package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codemart-backend-go/internal/models"
	"codemart-backend-go/internal/services"
)

func (s *Server) materialCard(row models.Material) MaterialCardDTO {
	tags := []string{}
	_ = json.Unmarshal(row.Tags, &tags)
	compat := []string{}
	_ = json.Unmarshal(row.SoftwareCompatibility, &compat)
	var fileURL, thumbURL *string
	if row.FileMediaID != nil {
		url := services.BuildAssetURL(*row.FileMediaID)
		fileURL = &url
	}
	if row.ThumbnailMediaID != nil {
		url := services.BuildAssetURL(*row.ThumbnailMediaID)
		thumbURL = &url
	}
	variant := services.ClassifyMaterial(row.FileType, row.ContentType, row.HTMLCode, row.CSSCode, row.JSCode)
	return MaterialCardDTO{
		ID:                    row.ID,
		Title:                 row.Title,
		Description:           row.Description,
		Category:              row.Category,
		ContentType:           row.ContentType,
		FileType:              row.FileType,
		AuthorName:            s.authorDisplayName(row.AuthorID),
		FileURL:               fileURL,
		ThumbnailURL:          thumbURL,
		PriceCents:            row.PriceCents,
		Currency:              row.Currency,
		IsPremium:             row.IsPremium,
		IsFeatured:            row.IsFeatured,
		Tags:                  tags,
		SoftwareCompatibility: compat,
		DownloadsCount:        row.DownloadsCount,
		Variant:               string(variant),
		Status:                row.Status,
		CreatedAt:             row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) materialDetail(row models.Material) MaterialDetailDTO {
	detail := MaterialDetailDTO{
		MaterialCardDTO: s.materialCard(row),
		Introduction:    row.Introduction,
		HTMLCode:        row.HTMLCode,
		CSSCode:         row.CSSCode,
		JSCode:          row.JSCode,
	}
	interactions := []models.Interaction{}
	_ = s.DB.Select(&interactions, `
SELECT id, material_id, interaction_type, comment_text, rating_value, user_id, user_ip, created_at
FROM interactions
WHERE material_id = $1
`, row.ID)
	stats := services.ComputeInteractionStats(interactions)
	detail.AverageRating = stats.AverageRating
	detail.TotalRatings = stats.TotalRatings
	return detail
}

func (s *Server) fetchMaterial(id string) (models.Material, error) {
	row := models.Material{}
	err := s.DB.Get(&row, `
SELECT id, title, description, category, content_type, file_type, author_id,
       file_media_id, thumbnail_media_id, price_cents, currency, is_premium, is_featured,
       tags, software_compatibility, downloads_count, html_code, css_code, js_code,
       introduction, status, created_at, updated_at
FROM materials
WHERE id = $1
`, id)
	return row, err
}

func (s *Server) authorDisplayName(authorID string) string {
	row := struct {
		Email       string  `db:"email"`
		DisplayName *string `db:"display_name"`
	}{}
	if err := s.DB.Get(&row, `
SELECT u.email, p.display_name
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
WHERE u.id = $1
`, authorID); err != nil {
		return "Creator"
	}
	if row.DisplayName != nil && strings.TrimSpace(*row.DisplayName) != "" {
		return strings.TrimSpace(*row.DisplayName)
	}
	if row.Email != "" {
		return row.Email
	}
	return "Creator"
}

func parseInt(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}
