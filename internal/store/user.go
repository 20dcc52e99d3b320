package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/cards-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user together with its role assignments.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user and their roles.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uint64) (*domain.User, error)

	// GetByEmail retrieves a user by email. The lookup uses the normalized
	// form produced by domain.NormalizeEmail.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
