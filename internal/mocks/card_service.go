package mocks

import (
	"context"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/service"
)

var _ service.CardService = (*MockCardService)(nil)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	CreateFn       func(ctx context.Context, input service.CreateCardInput) (*domain.Card, error)
	EditFn         func(ctx context.Context, input service.EditCardInput) (*domain.Card, error)
	GetFn          func(ctx context.Context, id uint64) (*domain.Card, error)
	DeleteFn       func(ctx context.Context, id uint64) (*domain.Card, error)
	SearchFn       func(ctx context.Context, params search.Params) (search.Page, error)
	ListStatusesFn func(ctx context.Context) ([]domain.CardStatus, error)

	// Default return values
	Card         *domain.Card
	Page         search.Page
	Statuses     []domain.CardStatus
	DefaultError error
}

// Create implements the CardService.Create method
func (m *MockCardService) Create(ctx context.Context, input service.CreateCardInput) (*domain.Card, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return m.Card, m.DefaultError
}

// Edit implements the CardService.Edit method
func (m *MockCardService) Edit(ctx context.Context, input service.EditCardInput) (*domain.Card, error) {
	if m.EditFn != nil {
		return m.EditFn(ctx, input)
	}
	return m.Card, m.DefaultError
}

// Get implements the CardService.Get method
func (m *MockCardService) Get(ctx context.Context, id uint64) (*domain.Card, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Card, m.DefaultError
}

// Delete implements the CardService.Delete method
func (m *MockCardService) Delete(ctx context.Context, id uint64) (*domain.Card, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Card, m.DefaultError
}

// Search implements the CardService.Search method
func (m *MockCardService) Search(ctx context.Context, params search.Params) (search.Page, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, params)
	}
	return m.Page, m.DefaultError
}

// ListStatuses implements the CardService.ListStatuses method
func (m *MockCardService) ListStatuses(ctx context.Context) ([]domain.CardStatus, error) {
	if m.ListStatusesFn != nil {
		return m.ListStatusesFn(ctx)
	}
	return m.Statuses, m.DefaultError
}
