package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User models an account in the identity store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is an authenticated caller, resolved from a bearer token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ValidRole reports whether name is one of the known roles.
func ValidRole(name string) bool {
	return name == RoleAdmin || name == RoleEditor
}
