package service

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/events"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository mocks the CardRepository interface. RunInTx hands the
// mock itself to fn unless an error is configured for it.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id uint64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) Search(ctx context.Context, c search.Criteria) ([]*domain.Card, int, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Card), args.Int(1), args.Error(2)
}

func (m *MockCardRepository) RunInTx(
	ctx context.Context,
	fn func(ctx context.Context, repo CardRepository) error,
) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

// MockStatusRepository mocks the StatusRepository interface
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) List(ctx context.Context) ([]domain.CardStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardStatus), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPasswordVerifier mocks auth.PasswordVerifier
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// sequenceIDs hands out increasing ids starting at 1000.
type sequenceIDs struct {
	mu   sync.Mutex
	next uint64
	err  error
}

func (s *sequenceIDs) Next() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if s.next == 0 {
		s.next = 1000
	}
	s.next++
	return s.next, nil
}

// memoryCardRepository is an in-memory CardRepository. Transactions operate
// on a copy of the map that replaces the original only when fn succeeds.
type memoryCardRepository struct {
	mu    sync.Mutex
	cards map[uint64]domain.Card
}

func newMemoryCardRepository(cards ...*domain.Card) *memoryCardRepository {
	r := &memoryCardRepository{cards: map[uint64]domain.Card{}}
	for _, c := range cards {
		r.cards[c.ID] = *c
	}
	return r
}

func (r *memoryCardRepository) snapshot(id uint64) (domain.Card, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	return c, ok
}

func (r *memoryCardRepository) Create(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := card.Validate(); err != nil {
		return err
	}
	if _, ok := r.cards[card.ID]; ok {
		return store.ErrDuplicate
	}
	r.cards[card.ID] = *card
	return nil
}

func (r *memoryCardRepository) GetByID(_ context.Context, id uint64) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &c, nil
}

func (r *memoryCardRepository) GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryCardRepository) Update(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	r.cards[card.ID] = *card
	return nil
}

func (r *memoryCardRepository) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *memoryCardRepository) Search(ctx context.Context, c search.Criteria) ([]*domain.Card, int, error) {
	r.mu.Lock()
	all := make(search.SliceSource, 0, len(r.cards))
	for _, card := range r.cards {
		card := card
		all = append(all, &card)
	}
	r.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all.Search(ctx, c)
}

func (r *memoryCardRepository) RunInTx(
	ctx context.Context,
	fn func(ctx context.Context, repo CardRepository) error,
) error {
	r.mu.Lock()
	tx := &memoryCardRepository{cards: make(map[uint64]domain.Card, len(r.cards))}
	for id, c := range r.cards {
		tx.cards[id] = c
	}
	r.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	r.cards = tx.cards
	r.mu.Unlock()
	return nil
}

// recordingEmitter collects emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.CardEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.CardEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}
