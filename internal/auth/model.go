package auth

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the service recognizes.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the identity record. Emails are compared case-insensitively: every
// lookup and insert goes through NormalizeEmail, and the users_email_key index
// enforces the same lowercased form.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lowercases and trims an email so equality matches the
// store's uniqueness policy.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
