package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	RoleAdmin   = "ADMIN"
	RoleCreator = "CREATOR"
	RoleUser    = "USER"
)

// EnsureRoles seeds the role table at boot.
func EnsureRoles(db *sqlx.DB) error {
	for _, code := range []string{RoleAdmin, RoleCreator, RoleUser} {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM roles WHERE code = $1)`, code); err != nil {
			return err
		}
		if !exists {
			if _, err := db.Exec(`INSERT INTO roles (id, code) VALUES ($1, $2)`, uuid.NewString(), code); err != nil {
				return err
			}
		}
	}
	return nil
}

func FetchRoles(db *sqlx.DB, userID string) ([]string, error) {
	roles := []string{}
	err := db.Select(&roles, `
SELECT r.code
FROM roles r
JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = $1
ORDER BY r.code
`, userID)
	return roles, err
}

func HasRole(db *sqlx.DB, userID, role string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `
SELECT EXISTS(
  SELECT 1
  FROM roles r
  JOIN user_roles ur ON ur.role_id = r.id
  WHERE ur.user_id = $1 AND r.code = $2
)
`, userID, role)
	return exists, err
}

func AssignRole(db *sqlx.DB, userID, role string) error {
	var roleID string
	if err := db.Get(&roleID, `SELECT id FROM roles WHERE code = $1`, role); err != nil {
		return ErrBadRequest("Unknown role")
	}
	_, err := db.Exec(`
INSERT INTO user_roles (id, user_id, role_id, assigned_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, role_id) DO NOTHING
`, uuid.NewString(), userID, roleID, time.Now().UTC())
	return err
}

func RemoveRole(db *sqlx.DB, userID, role string) error {
	_, err := db.Exec(`
DELETE FROM user_roles
WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE code = $2)
`, userID, role)
	return err
}

func TouchLastSeen(db *sqlx.DB, userID string) error {
	_, err := db.Exec(`UPDATE users SET last_seen_at = $1 WHERE id = $2`, time.Now().UTC(), userID)
	return err
}

func SetLastLogin(db *sqlx.DB, userID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE users SET last_login_at = $1, last_seen_at = $1 WHERE id = $2`, now, userID)
	return err
}

func GetUserStatus(db *sqlx.DB, userID string) (string, error) {
	var status sql.NullString
	err := db.Get(&status, `SELECT status FROM users WHERE id = $1`, userID)
	if err != nil {
		return "", err
	}
	if status.Valid {
		return status.String, nil
	}
	return "", nil
}
