package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an employee or administrator who can clock in and out.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one the system knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
