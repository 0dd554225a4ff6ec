package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"codemart-backend-go/internal/models"
	"codemart-backend-go/internal/services"
)

func (s *Server) PublicMaterials(w http.ResponseWriter, r *http.Request) {
	opts := services.MaterialListOptions{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Page:     parseInt(r.URL.Query().Get("page"), 1),
		Limit:    parseInt(r.URL.Query().Get("limit"), 12),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err == nil {
			opts.Featured = &featured
		}
	}
	page, err := services.ListPublishedMaterials(s.DB, opts)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]MaterialCardDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, s.materialCard(row))
	}
	WriteJSON(w, http.StatusOK, MaterialListResponse{
		Items:     items,
		Total:     page.Total,
		Page:      page.Page,
		PageCount: page.PageCount,
		Size:      opts.Limit,
	})
}

func (s *Server) PublicMaterialDetail(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")
	row, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	if row.Status != "published" {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	WriteJSON(w, http.StatusOK, s.materialDetail(row))
}

func (s *Server) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	query := services.CleanSearchTerm(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	rows := []models.Material{}
	if err := s.DB.Select(&rows, `
SELECT id, title, description, category, content_type, file_type, author_id,
       file_media_id, thumbnail_media_id, price_cents, currency, is_premium, is_featured,
       tags, software_compatibility, downloads_count, html_code, css_code, js_code,
       introduction, status, created_at, updated_at
FROM materials
WHERE status = 'published'
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	byID := make(map[string]models.Material, len(rows))
	searchRows := make([]services.MaterialSearchRow, 0, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
		tags := []string{}
		_ = json.Unmarshal(row.Tags, &tags)
		compat := []string{}
		_ = json.Unmarshal(row.SoftwareCompatibility, &compat)
		searchRows = append(searchRows, services.MaterialSearchRow{
			ID:                    row.ID,
			Title:                 row.Title,
			Description:           row.Description,
			Category:              row.Category,
			Author:                s.authorDisplayName(row.AuthorID),
			ContentType:           row.ContentType,
			FileType:              row.FileType,
			Tags:                  tags,
			SoftwareCompatibility: compat,
		})
	}
	matched := services.FilterMaterials(searchRows, query, category)
	items := make([]MaterialCardDTO, 0, len(matched))
	for _, match := range matched {
		items = append(items, s.materialCard(byID[match.ID]))
	}
	WriteJSON(w, http.StatusOK, MaterialListResponse{Items: items, Total: len(items), Page: 1, PageCount: 1, Size: len(items)})
}

func (s *Server) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")
	row, err := s.fetchMaterial(materialID)
	if err != nil || row.Status != "published" {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	if row.IsPremium && row.PriceCents > 0 {
		userID := CurrentUserID(r)
		ip := resolveClientIP(r)
		var paid bool
		if err := s.DB.Get(&paid, `
SELECT EXISTS(
  SELECT 1 FROM purchases
  WHERE material_id = $1 AND status = 'paid'
    AND ((user_id IS NOT NULL AND user_id::text = $2) OR (user_id IS NULL AND user_ip = $3))
)`, materialID, userID, ip); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !paid {
			WriteError(w, http.StatusPaymentRequired, "Purchase required")
			return
		}
	}
	if row.FileMediaID == nil {
		WriteError(w, http.StatusNotFound, "Material has no downloadable file")
		return
	}
	object, asset, err := s.Store.OpenAsset(r.Context(), s.DB, *row.FileMediaID)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer object.Close()

	_, _ = s.DB.Exec(`UPDATE materials SET downloads_count = downloads_count + 1 WHERE id = $1`, materialID)

	w.Header().Set("Content-Type", asset.ContentType)
	if asset.Filename != nil {
		w.Header().Set("Content-Disposition", `attachment; filename="`+*asset.Filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, object)
}
