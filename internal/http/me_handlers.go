package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"codemart-backend-go/internal/services"
)

type ProfileUpdateRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword"`
}

type PreferencesDTO struct {
	Theme    string `json:"theme"`
	DarkMode bool   `json:"darkMode"`
}

type RoleCheckResponse struct {
	IsAdmin   bool `json:"isAdmin"`
	IsCreator bool `json:"isCreator"`
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	userDTO, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]*UserDTO{"user": userDTO})
}

// MyRoles resolves the admin and creator flags in one call; route guards on
// the client key off this response.
func (s *Server) MyRoles(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	isAdmin, err := services.HasRole(s.DB, userID, services.RoleAdmin)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	isCreator, err := services.HasRole(s.DB, userID, services.RoleCreator)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, RoleCheckResponse{IsAdmin: isAdmin, IsCreator: isCreator})
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	now := time.Now().UTC()
	_, _ = s.DB.Exec(`
INSERT INTO user_profiles (user_id, created_at, updated_at)
VALUES ($1,$2,$2)
ON CONFLICT (user_id) DO NOTHING
`, userID, now)
	_, err := s.DB.Exec(`
UPDATE user_profiles
SET display_name = $2, bio = $3, updated_at = $4
WHERE user_id = $1
`, userID, req.DisplayName, req.Bio, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	userDTO, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]*UserDTO{"user": userDTO})
}

func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	row := struct {
		Theme    string `db:"theme"`
		DarkMode bool   `db:"dark_mode"`
	}{Theme: "default"}
	_ = s.DB.Get(&row, `SELECT theme, dark_mode FROM user_preferences WHERE user_id = $1`, userID)
	WriteJSON(w, http.StatusOK, PreferencesDTO{Theme: row.Theme, DarkMode: row.DarkMode})
}

func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req PreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Theme == "" {
		req.Theme = "default"
	}
	_, err := s.DB.Exec(`
INSERT INTO user_preferences (user_id, theme, dark_mode, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id) DO UPDATE SET theme = $2, dark_mode = $3, updated_at = $4
`, userID, req.Theme, req.DarkMode, time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, req)
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "New password must have at least 8 characters")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		WriteError(w, http.StatusBadRequest, "Password confirmation does not match")
		return
	}
	row := struct {
		PasswordHash string `db:"password_hash"`
	}{}
	if err := s.DB.Get(&row, `SELECT password_hash FROM users WHERE id = $1`, userID); err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if !s.Tokens.VerifyPassword(req.CurrentPassword, row.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	hash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_, err = s.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	// materials keep a hard reference to their author; the account cannot
	// go away while authored content exists.
	var authored int
	if err := s.DB.Get(&authored, `SELECT count(*) FROM materials WHERE author_id = $1`, userID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if authored > 0 {
		WriteError(w, http.StatusConflict, "Delete your materials before deleting the account")
		return
	}
	var avatarID *string
	_ = s.DB.Get(&avatarID, `SELECT avatar_media_id FROM user_profiles WHERE user_id = $1`, userID)
	if avatarID != nil {
		_ = s.Store.DeleteAsset(r.Context(), s.DB, *avatarID)
	}
	_, err := s.DB.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Ping(w http.ResponseWriter, r *http.Request) {
	_ = services.TouchLastSeen(s.DB, CurrentUserID(r))
	w.WriteHeader(http.StatusNoContent)
}
