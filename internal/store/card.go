package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/search"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create inserts a card. The card must already carry its generated id and
	// audit fields. Returns ErrInvalidEntity if validation fails.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its id.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uint64) (*domain.Card, error)

	// GetForUpdate is GetByID with a row lock held until the surrounding
	// transaction ends. It must be called on a store bound with WithTx.
	GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error)

	// Update writes every mutable field of card, including the audit fields.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card by its id.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uint64) error

	// Search returns the page of cards selected by c and the total number of
	// cards matching c's scope and filter.
	Search(ctx context.Context, c search.Criteria) ([]*domain.Card, int, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTx(tx).Create(ctx, card)
	//   })
	WithTx(tx *sql.Tx) CardStore
}

// CardStatusStore reads the fixed card status reference rows.
type CardStatusStore interface {
	// List returns every status ordered by id.
	List(ctx context.Context) ([]domain.CardStatus, error)
}
