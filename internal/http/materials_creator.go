package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codemart-backend-go/internal/models"
	"codemart-backend-go/internal/services"
)

func (s *Server) CreatorListMaterials(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	canManage := hasRole(CurrentRoles(r), services.RoleAdmin)
	query := `
SELECT id, title, description, category, content_type, file_type, author_id,
       file_media_id, thumbnail_media_id, price_cents, currency, is_premium, is_featured,
       tags, software_compatibility, downloads_count, html_code, css_code, js_code,
       introduction, status, created_at, updated_at
FROM materials
`
	args := []interface{}{}
	if !canManage {
		query += "WHERE author_id = $1\n"
		args = append(args, userID)
	}
	query += "ORDER BY created_at DESC"
	rows := []models.Material{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]MaterialCardDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.materialCard(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]MaterialCardDTO{"items": items})
}

func (s *Server) CreatorMaterialDetail(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")
	row, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	if !hasRole(CurrentRoles(r), services.RoleAdmin) && row.AuthorID != CurrentUserID(r) {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	WriteJSON(w, http.StatusOK, s.materialDetail(row))
}

func (s *Server) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req MaterialUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Title and category are required")
		return
	}
	status := req.Status
	if status == "" {
		status = "draft"
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}
	tagsJSON, _ := json.Marshal(services.CleanTags(req.Tags))
	compatJSON, _ := json.Marshal(services.CleanTags(req.SoftwareCompatibility))
	now := time.Now().UTC()
	materialID := uuid.NewString()
	_, err := s.DB.Exec(`
INSERT INTO materials (
  id, title, description, category, content_type, file_type, author_id,
  file_media_id, thumbnail_media_id, price_cents, currency, is_premium, is_featured,
  tags, software_compatibility, html_code, css_code, js_code, introduction,
  status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$21)
`, materialID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), strings.TrimSpace(req.Category),
		strings.TrimSpace(req.ContentType), strings.TrimSpace(req.FileType), userID,
		req.FileAssetID, req.ThumbnailAssetID, req.PriceCents, currency, req.IsPremium, req.IsFeatured,
		tagsJSON, compatJSON, req.HTMLCode, req.CSSCode, req.JSCode, req.Introduction, status, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	row, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	detail := s.materialDetail(row)
	s.Events.Publish(services.Event{Table: services.TableMaterials, Type: services.EventInsert, New: detail, MaterialID: materialID})
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	materialID := chi.URLParam(r, "materialId")
	var req MaterialUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Title and category are required")
		return
	}
	existing, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	canManage := hasRole(CurrentRoles(r), services.RoleAdmin)
	if !canManage && existing.AuthorID != userID {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	status := req.Status
	if status == "" {
		status = existing.Status
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = existing.Currency
	}
	tagsJSON, _ := json.Marshal(services.CleanTags(req.Tags))
	compatJSON, _ := json.Marshal(services.CleanTags(req.SoftwareCompatibility))
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
UPDATE materials
SET title = $2, description = $3, category = $4, content_type = $5, file_type = $6,
    file_media_id = $7, thumbnail_media_id = $8, price_cents = $9, currency = $10,
    is_premium = $11, is_featured = $12, tags = $13, software_compatibility = $14,
    html_code = $15, css_code = $16, js_code = $17, introduction = $18,
    status = $19, updated_at = $20
WHERE id = $1
`, materialID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), strings.TrimSpace(req.Category),
		strings.TrimSpace(req.ContentType), strings.TrimSpace(req.FileType),
		req.FileAssetID, req.ThumbnailAssetID, req.PriceCents, currency, req.IsPremium, req.IsFeatured,
		tagsJSON, compatJSON, req.HTMLCode, req.CSSCode, req.JSCode, req.Introduction, status, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	row, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	detail := s.materialDetail(row)
	s.Events.Publish(services.Event{
		Table:      services.TableMaterials,
		Type:       services.EventUpdate,
		New:        detail,
		Old:        s.materialCard(existing),
		MaterialID: materialID,
	})
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	materialID := chi.URLParam(r, "materialId")
	existing, err := s.fetchMaterial(materialID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	canManage := hasRole(CurrentRoles(r), services.RoleAdmin)
	if !canManage && existing.AuthorID != userID {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	_, _ = s.DB.Exec(`DELETE FROM materials WHERE id = $1`, materialID)
	s.Events.Publish(services.Event{
		Table:      services.TableMaterials,
		Type:       services.EventDelete,
		Old:        s.materialCard(existing),
		MaterialID: materialID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func hasRole(roles []string, role string) bool {
	role = strings.ToUpper(role)
	for _, r := range roles {
		if strings.ToUpper(r) == role {
			return true
		}
	}
	return false
}
