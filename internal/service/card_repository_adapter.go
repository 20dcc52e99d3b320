package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/store"
)

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

// Create implements CardRepository.Create
func (a *cardRepositoryAdapter) Create(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Create(ctx, card)
}

// GetByID implements CardRepository.GetByID
func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id uint64) (*domain.Card, error) {
	return a.cardStore.GetByID(ctx, id)
}

// GetForUpdate implements CardRepository.GetForUpdate
func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error) {
	return a.cardStore.GetForUpdate(ctx, id)
}

// Update implements CardRepository.Update
func (a *cardRepositoryAdapter) Update(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Update(ctx, card)
}

// Delete implements CardRepository.Delete
func (a *cardRepositoryAdapter) Delete(ctx context.Context, id uint64) error {
	return a.cardStore.Delete(ctx, id)
}

// Search implements CardRepository.Search
func (a *cardRepositoryAdapter) Search(ctx context.Context, c search.Criteria) ([]*domain.Card, int, error) {
	return a.cardStore.Search(ctx, c)
}

// RunInTx implements CardRepository.RunInTx
func (a *cardRepositoryAdapter) RunInTx(
	ctx context.Context,
	fn func(ctx context.Context, repo CardRepository) error,
) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &cardRepositoryAdapter{
			cardStore: a.cardStore.WithTx(tx),
			db:        a.db,
		})
	})
}
