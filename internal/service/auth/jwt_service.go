package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given subject.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, subject TokenSubject) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation fails
	// (expired, invalid signature, wrong issuer or audience, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// TokenSubject is the user information written into a token.
type TokenSubject struct {
	UserID uint64
	Email  string
	Roles  []string
}

// Claims represents the validated content of an access token.
type Claims struct {
	// UserID is the numeric id carried in the subject claim.
	UserID uint64
	Email  string
	Roles  []string

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
