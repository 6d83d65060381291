package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

type UserStore struct {
	DB *sql.DB
}

// Profile is what the external auth provider tells us about a user.
type Profile struct {
	ExternalID string
	Name       string
	Email      string
	Image      string
}

const userColumns = "id, external_id, name, email, image, role, created_at, updated_at"

func (s *UserStore) get(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg).
		Scan(&u.ID, &u.ExternalID, &u.Name, &u.Email, &u.Image, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &u, nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.get(ctx, "id = ?", id)
}

// Upsert mirrors the provider profile and returns the local user, including its role.
// New users start as USER.
func (s *UserStore) Upsert(ctx context.Context, p Profile) (*models.User, error) {
	now := time.Now()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (external_id, name, email, image, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			email = VALUES(email),
			image = VALUES(image),
			updated_at = VALUES(updated_at)`,
		p.ExternalID, p.Name, p.Email, p.Image, models.RoleUser, now, now)
	if err != nil {
		return nil, dbErr(err)
	}
	return s.get(ctx, "external_id = ?", p.ExternalID)
}

// SetRole changes a user's role.
func (s *UserStore) SetRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.ValidationMsg("role", "Role must be USER, SELLER or ADMIN")
	}
	if _, err := s.DB.ExecContext(ctx,
		"UPDATE users SET role = ?, updated_at = ? WHERE id = ?", role, time.Now(), id); err != nil {
		return nil, dbErr(err)
	}
	return s.Get(ctx, id)
}
