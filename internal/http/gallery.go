package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codemart-backend-go/internal/models"
	"codemart-backend-go/internal/services"
)

type ImageCategoryDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	StyleConfig json.RawMessage `json:"styleConfig"`
}

type GalleryImageDTO struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Prompt     *string           `json:"prompt"`
	ImageURL   *string           `json:"imageUrl"`
	IsFeatured bool              `json:"isFeatured"`
	Status     string            `json:"status"`
	Category   *ImageCategoryDTO `json:"category"`
	CreatedAt  string            `json:"createdAt"`
}

type GalleryListResponse struct {
	Items []GalleryImageDTO `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

type GalleryImageUpsertRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Prompt       *string `json:"prompt"`
	ImageAssetID *string `json:"imageAssetId"`
	IsFeatured   bool    `json:"isFeatured"`
	Status       string  `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID   *string `json:"categoryId"`
}

type ImageCategoryUpsertRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Color       string          `json:"color" validate:"max=32"`
	StyleConfig json.RawMessage `json:"styleConfig"`
}

func (s *Server) galleryImageDTO(row models.GalleryImage) GalleryImageDTO {
	var imageURL *string
	if row.ImageMediaID != nil {
		url := services.BuildAssetURL(*row.ImageMediaID)
		imageURL = &url
	}
	dto := GalleryImageDTO{
		ID:         row.ID,
		Title:      row.Title,
		Prompt:     row.Prompt,
		ImageURL:   imageURL,
		IsFeatured: row.IsFeatured,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.CategoryID != nil {
		dto.Category = s.fetchImageCategory(*row.CategoryID)
	}
	return dto
}

func (s *Server) fetchImageCategory(id string) *ImageCategoryDTO {
	row := models.ImageCategory{}
	if err := s.DB.Get(&row, `
SELECT id, name, description, color, style_config, created_at
FROM image_categories WHERE id = $1
`, id); err != nil {
		return nil
	}
	return &ImageCategoryDTO{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Color:       row.Color,
		StyleConfig: json.RawMessage(row.StyleConfig),
	}
}

func (s *Server) PublicGallery(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 24)
	page := parseInt(r.URL.Query().Get("page"), 1)
	if limit < 1 {
		limit = 24
	}
	if page < 1 {
		page = 1
	}
	where := "WHERE status = 'published'"
	args := []interface{}{}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		args = append(args, category)
		where += " AND category_id = $1"
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			args = append(args, featured)
			where += " AND is_featured = $" + strconv.Itoa(len(args))
		}
	}
	var total int
	if err := s.DB.Get(&total, "SELECT count(*) FROM gallery_images "+where, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	args = append(args, limit, (page-1)*limit)
	query := `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images
` + where + `
ORDER BY created_at DESC
LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows := []models.GalleryImage{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]GalleryImageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.galleryImageDTO(row))
	}
	WriteJSON(w, http.StatusOK, GalleryListResponse{Items: items, Total: total, Page: page, Size: limit})
}

func (s *Server) PublicImageCategories(w http.ResponseWriter, r *http.Request) {
	rows := []models.ImageCategory{}
	if err := s.DB.Select(&rows, `
SELECT id, name, description, color, style_config, created_at
FROM image_categories
ORDER BY name ASC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ImageCategoryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ImageCategoryDTO{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Color:       row.Color,
			StyleConfig: json.RawMessage(row.StyleConfig),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreatorListGallery(w http.ResponseWriter, r *http.Request) {
	rows := []models.GalleryImage{}
	if err := s.DB.Select(&rows, `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images
ORDER BY created_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]GalleryImageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.galleryImageDTO(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]GalleryImageDTO{"items": items})
}

func (s *Server) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req GalleryImageUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.CategoryID != nil && s.fetchImageCategory(*req.CategoryID) == nil {
		WriteError(w, http.StatusBadRequest, "Selected category does not exist")
		return
	}
	status := req.Status
	if status == "" {
		status = "draft"
	}
	now := time.Now().UTC()
	imageID := uuid.NewString()
	_, err := s.DB.Exec(`
INSERT INTO gallery_images (id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
`, imageID, strings.TrimSpace(req.Title), req.Prompt, req.ImageAssetID, req.IsFeatured, status, req.CategoryID, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	row := models.GalleryImage{}
	_ = s.DB.Get(&row, `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images WHERE id = $1
`, imageID)
	dto := s.galleryImageDTO(row)
	s.Events.Publish(services.Event{Table: services.TableGallery, Type: services.EventInsert, New: dto})
	WriteJSON(w, http.StatusOK, dto)
}

func (s *Server) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageId")
	var req GalleryImageUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	existing := models.GalleryImage{}
	if err := s.DB.Get(&existing, `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images WHERE id = $1
`, imageID); err != nil {
		WriteError(w, http.StatusNotFound, "Image not found")
		return
	}
	if req.CategoryID != nil && s.fetchImageCategory(*req.CategoryID) == nil {
		WriteError(w, http.StatusBadRequest, "Selected category does not exist")
		return
	}
	status := req.Status
	if status == "" {
		status = existing.Status
	}
	now := time.Now().UTC()
	_, err := s.DB.Exec(`
UPDATE gallery_images
SET title = $2, prompt = $3, image_media_id = $4, is_featured = $5, status = $6, category_id = $7, updated_at = $8
WHERE id = $1
`, imageID, strings.TrimSpace(req.Title), req.Prompt, req.ImageAssetID, req.IsFeatured, status, req.CategoryID, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	row := models.GalleryImage{}
	_ = s.DB.Get(&row, `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images WHERE id = $1
`, imageID)
	dto := s.galleryImageDTO(row)
	s.Events.Publish(services.Event{Table: services.TableGallery, Type: services.EventUpdate, New: dto, Old: s.galleryImageDTO(existing)})
	WriteJSON(w, http.StatusOK, dto)
}

func (s *Server) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageId")
	existing := models.GalleryImage{}
	if err := s.DB.Get(&existing, `
SELECT id, title, prompt, image_media_id, is_featured, status, category_id, created_at, updated_at
FROM gallery_images WHERE id = $1
`, imageID); err != nil {
		WriteError(w, http.StatusNotFound, "Image not found")
		return
	}
	_, _ = s.DB.Exec(`DELETE FROM gallery_images WHERE id = $1`, imageID)
	s.Events.Publish(services.Event{Table: services.TableGallery, Type: services.EventDelete, Old: s.galleryImageDTO(existing)})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) CreateImageCategory(w http.ResponseWriter, r *http.Request) {
	var req ImageCategoryUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	styleConfig := req.StyleConfig
	if len(styleConfig) == 0 {
		styleConfig = json.RawMessage("{}")
	}
	categoryID := uuid.NewString()
	_, err := s.DB.Exec(`
INSERT INTO image_categories (id, name, description, color, style_config, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, categoryID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), strings.TrimSpace(req.Color), []byte(styleConfig), time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, s.fetchImageCategory(categoryID))
}

func (s *Server) UpdateImageCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	var req ImageCategoryUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if s.fetchImageCategory(categoryID) == nil {
		WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	styleConfig := req.StyleConfig
	if len(styleConfig) == 0 {
		styleConfig = json.RawMessage("{}")
	}
	_, err := s.DB.Exec(`
UPDATE image_categories
SET name = $2, description = $3, color = $4, style_config = $5
WHERE id = $1
`, categoryID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), strings.TrimSpace(req.Color), []byte(styleConfig))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, s.fetchImageCategory(categoryID))
}

func (s *Server) DeleteImageCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	if s.fetchImageCategory(categoryID) == nil {
		WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	// Weak reference: images keep existing with a null category.
	_, _ = s.DB.Exec(`DELETE FROM image_categories WHERE id = $1`, categoryID)
	w.WriteHeader(http.StatusNoContent)
}
