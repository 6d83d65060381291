package models

import "time"

type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSeller || r == RoleAdmin
}

// User mirrors an account from the external auth provider.
type User struct {
	ID         int64     `json:"id" db:"id"`
	ExternalID string    `json:"-" db:"external_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Image      string    `json:"image,omitempty" db:"image"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Session is the authenticated caller, built once per request and passed explicitly.
type Session struct {
	UserID int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Image  string `json:"image,omitempty"`
	Role   Role   `json:"role"`
}

func (u *User) Session() Session {
	return Session{UserID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Role: u.Role}
}
