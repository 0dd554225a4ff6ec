package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codemart-backend-go/internal/services"
)

type AdminUserCreateRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	DisplayName *string  `json:"displayName"`
	Roles       []string `json:"roles"`
}

type AdminUserUpdateRequest struct {
	Status      *string `json:"status"`
	DisplayName *string `json:"displayName"`
}

type AdminUserListResponse struct {
	Items []UserDTO `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 25)
	page := parseInt(r.URL.Query().Get("page"), 1)
	if limit < 1 {
		limit = 25
	}
	if page < 1 {
		page = 1
	}
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	where := ""
	args := []interface{}{}
	if search != "" {
		where = "WHERE lower(u.email) LIKE $1 OR lower(COALESCE(p.display_name, '')) LIKE $1"
		args = append(args, "%"+search+"%")
	}
	var total int
	if err := s.DB.Get(&total, `
SELECT count(*)
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
`+where, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	args = append(args, limit, (page-1)*limit)
	ids := []string{}
	query := `
SELECT u.id
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
` + where + `
ORDER BY u.created_at DESC
LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	if err := s.DB.Select(&ids, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]UserDTO, 0, len(ids))
	for _, id := range ids {
		dto, err := buildUserDTO(s.DB, id)
		if err != nil {
			continue
		}
		items = append(items, *dto)
	}
	WriteJSON(w, http.StatusOK, AdminUserListResponse{Items: items, Total: total, Page: page, Size: limit})
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminUserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Email and a password of at least 8 characters are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var exists bool
	_ = s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email)
	if exists {
		WriteError(w, http.StatusBadRequest, "User already exists")
		return
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO users (id, email, password_hash, status, is_email_verified, created_at, updated_at)
VALUES ($1,$2,$3,'ACTIVE',TRUE,$4,$4)
`, userID, email, hash, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_, _ = s.DB.Exec(`
INSERT INTO user_profiles (user_id, display_name, created_at, updated_at)
VALUES ($1,$2,$3,$3)
`, userID, req.DisplayName, now)
	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{services.RoleUser}
	}
	for _, role := range roles {
		if err := services.AssignRole(s.DB, userID, strings.ToUpper(strings.TrimSpace(role))); err != nil {
			WriteError(w, http.StatusBadRequest, "Unknown role: "+role)
			return
		}
	}
	dto, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, dto)
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req AdminUserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var exists bool
	_ = s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if !exists {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	now := time.Now().UTC()
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if status != "ACTIVE" && status != "SUSPENDED" {
			WriteError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		_, _ = s.DB.Exec(`UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`, status, now, userID)
	}
	if req.DisplayName != nil {
		_, _ = s.DB.Exec(`
INSERT INTO user_profiles (user_id, display_name, created_at, updated_at)
VALUES ($1,$2,$3,$3)
ON CONFLICT (user_id) DO UPDATE SET display_name = $2, updated_at = $3
`, userID, req.DisplayName, now)
	}
	dto, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, dto)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == CurrentUserID(r) {
		WriteError(w, http.StatusBadRequest, "You cannot delete your own account here")
		return
	}
	var authored int
	if err := s.DB.Get(&authored, `SELECT count(*) FROM materials WHERE author_id = $1`, userID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if authored > 0 {
		WriteError(w, http.StatusConflict, "User still has authored materials")
		return
	}
	if _, err := s.DB.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if err := services.AssignRole(s.DB, userID, role); err != nil {
		if mapServiceError(w, err) {
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	role := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "role")))
	if err := services.RemoveRole(s.DB, userID, role); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
