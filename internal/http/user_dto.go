package httpapi

import (
	"time"

	"github.com/jmoiron/sqlx"

	"codemart-backend-go/internal/services"
)

type ProfileDTO struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

type UserDTO struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Status      string      `json:"status"`
	Roles       []string    `json:"roles"`
	Profile     *ProfileDTO `json:"profile,omitempty"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
}

func buildUserDTO(db *sqlx.DB, userID string) (*UserDTO, error) {
	row := struct {
		ID          string     `db:"id"`
		Email       string     `db:"email"`
		Status      string     `db:"status"`
		LastLogin   *time.Time `db:"last_login_at"`
		DisplayName *string    `db:"display_name"`
		Bio         *string    `db:"bio"`
		AvatarID    *string    `db:"avatar_media_id"`
	}{}
	if err := db.Get(&row, `
SELECT u.id, u.email, u.status, u.last_login_at,
       p.display_name, p.bio, p.avatar_media_id
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
WHERE u.id = $1
`, userID); err != nil {
		return nil, err
	}
	roles, err := services.FetchRoles(db, userID)
	if err != nil {
		return nil, err
	}
	var avatarURL *string
	if row.AvatarID != nil {
		url := services.BuildAssetURL(*row.AvatarID)
		avatarURL = &url
	}
	profile := (*ProfileDTO)(nil)
	if row.DisplayName != nil || row.Bio != nil || row.AvatarID != nil {
		profile = &ProfileDTO{
			DisplayName: row.DisplayName,
			Bio:         row.Bio,
			AvatarURL:   avatarURL,
		}
	}
	return &UserDTO{
		ID:          row.ID,
		Email:       row.Email,
		Status:      row.Status,
		Roles:       roles,
		Profile:     profile,
		LastLoginAt: row.LastLogin,
	}, nil
}
