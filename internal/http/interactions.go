package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codemart-backend-go/internal/models"
	"codemart-backend-go/internal/services"
)

type InteractionDTO struct {
	ID              string  `json:"id"`
	InteractionType string  `json:"interactionType"`
	CommentText     *string `json:"commentText,omitempty"`
	RatingValue     *int    `json:"ratingValue,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type InteractionListResponse struct {
	Items []InteractionDTO          `json:"items"`
	Stats services.InteractionStats `json:"stats"`
}

type InteractionCreateRequest struct {
	InteractionType string  `json:"interactionType" validate:"required"`
	CommentText     *string `json:"commentText"`
	RatingValue     *int    `json:"ratingValue"`
}

func (s *Server) MaterialInteractions(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")
	row, err := s.fetchMaterial(materialID)
	if err != nil || row.Status != "published" {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	rows := []models.Interaction{}
	if err := s.DB.Select(&rows, `
SELECT id, material_id, interaction_type, comment_text, rating_value, user_id, user_ip, created_at
FROM interactions
WHERE material_id = $1
ORDER BY created_at DESC
`, materialID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]InteractionDTO, 0, len(rows))
	for _, item := range rows {
		items = append(items, InteractionDTO{
			ID:              item.ID,
			InteractionType: item.InteractionType,
			CommentText:     item.CommentText,
			RatingValue:     item.RatingValue,
			CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, InteractionListResponse{
		Items: items,
		Stats: services.ComputeInteractionStats(rows),
	})
}

func (s *Server) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")
	row, err := s.fetchMaterial(materialID)
	if err != nil || row.Status != "published" {
		WriteError(w, http.StatusNotFound, "Material not found")
		return
	}
	var req InteractionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	kind, err := services.ValidateInteraction(req.InteractionType, req.CommentText, req.RatingValue)
	if mapServiceError(w, err) {
		return
	}
	// Only the field belonging to the type is stored; the rest is dropped.
	commentText := req.CommentText
	ratingValue := req.RatingValue
	switch kind {
	case services.InteractionComment:
		ratingValue = nil
	case services.InteractionRating:
		commentText = nil
	default:
		commentText, ratingValue = nil, nil
	}

	// Identity is the authenticated user when present, else the caller's IP.
	var userID *string
	if current := CurrentUserID(r); current != "" {
		userID = &current
	}
	ip := resolveClientIP(r)

	interactionID := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO interactions (id, material_id, interaction_type, comment_text, rating_value, user_id, user_ip, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, interactionID, materialID, kind, commentText, ratingValue, userID, ip, now)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "Already recorded for this material")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	created := InteractionDTO{
		ID:              interactionID,
		InteractionType: kind,
		CommentText:     commentText,
		RatingValue:     ratingValue,
		CreatedAt:       now.Format(time.RFC3339),
	}
	s.Events.Publish(services.Event{
		Table:      services.TableInteractions,
		Type:       services.EventInsert,
		New:        created,
		MaterialID: materialID,
	})
	WriteJSON(w, http.StatusOK, created)
}
