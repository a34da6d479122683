package models

import (
	"time"

	"warung-pos/internal/apperrors"
)

// Role is the fixed set of user roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleKasir Role = "kasir"
	RoleStaff Role = "staff"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleKasir, RoleStaff:
		return true
	}
	return false
}

// User is a staff account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	TelegramID   *string   `json:"telegram_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return apperrors.Validation("username", "username is required")
	}
	if r.Password == "" {
		return apperrors.Validation("password", "password is required")
	}
	return nil
}

// CreateUserRequest is the payload for creating a staff account.
type CreateUserRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	TelegramID *string `json:"telegram_id,omitempty"`
}

// Validate checks the create user payload.
func (r *CreateUserRequest) Validate() error {
	if r.Username == "" {
		return apperrors.Validation("username", "username is required")
	}
	if r.Password == "" {
		return apperrors.Validation("password", "password is required")
	}
	if !ValidRole(r.Role) {
		return apperrors.Validation("role", "role must be one of: admin, kasir, staff")
	}
	return nil
}
