package domain

import (
	"strings"
	"time"
)

// Role names carried in credentials.
const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
)

// User is an account able to sign in and own cards. Passwords are managed by
// the identity subsystem; this service only reads the stored hash.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// NormalizeEmail returns the form emails are looked up by.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SetCreatedAt implements audit.Auditable.
func (u *User) SetCreatedAt(t time.Time) { u.CreatedAt = t }

// SetModifiedAt implements audit.Auditable.
func (u *User) SetModifiedAt(t time.Time) { u.ModifiedAt = t }

// CreationTime implements audit.Auditable.
func (u *User) CreationTime() time.Time { return u.CreatedAt }
