package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/cards-api/internal/audit"
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/events"
	"github.com/phrazzld/cards-api/internal/idgen"
	"github.com/phrazzld/cards-api/internal/platform/cache"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/service/auth"
)

// statusCacheKey is the cache key for the status list.
const statusCacheKey = "statuses"

// CardRepository defines the repository interface for the service layer
type CardRepository interface {
	search.Source

	// Create saves a new card
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID
	GetByID(ctx context.Context, id uint64) (*domain.Card, error)

	// GetForUpdate retrieves a card and locks it for the rest of the transaction
	GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error)

	// Update writes every mutable field of an existing card
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card
	Delete(ctx context.Context, id uint64) error

	// RunInTx runs fn with a repository bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo CardRepository) error) error
}

// StatusRepository reads the fixed card statuses.
type StatusRepository interface {
	List(ctx context.Context) ([]domain.CardStatus, error)
}

// CreateCardInput holds the fields a caller supplies for a new card.
type CreateCardInput struct {
	Name        string
	Description *string
	Color       *string
}

// EditCardInput holds a partial update. Nil fields are left unchanged; an
// empty Description or Color clears it.
type EditCardInput struct {
	ID          uint64
	Name        *string
	Description *string
	Color       *string
	StatusID    *domain.CardStatusID
}

// CardService provides card-related operations. Every operation requires an
// actor in the context (see auth.WithActor) and returns *Error on failure.
type CardService interface {
	// Create validates and stores a new card in the ToDo status.
	Create(ctx context.Context, input CreateCardInput) (*domain.Card, error)

	// Edit applies a partial update to a card the actor owns or administers.
	Edit(ctx context.Context, input EditCardInput) (*domain.Card, error)

	// Get returns a card the actor owns or administers.
	Get(ctx context.Context, id uint64) (*domain.Card, error)

	// Delete removes a card the actor owns or administers and returns it.
	Delete(ctx context.Context, id uint64) (*domain.Card, error)

	// Search returns one page of the cards visible to the actor.
	Search(ctx context.Context, params search.Params) (search.Page, error)

	// ListStatuses returns every card status.
	ListStatuses(ctx context.Context) ([]domain.CardStatus, error)
}

// CardServiceDeps are the collaborators of the card service. Emitter and
// Cache are optional.
type CardServiceDeps struct {
	Cards     CardRepository
	Statuses  StatusRepository
	IDs       idgen.IDGenerator
	Stamper   *audit.Stamper
	Emitter   events.EventEmitter
	Cache     cache.Cache
	StatusTTL time.Duration
	Logger    *slog.Logger
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cards     CardRepository
	statuses  StatusRepository
	ids       idgen.IDGenerator
	stamper   *audit.Stamper
	emitter   events.EventEmitter
	cache     cache.Cache
	statusTTL time.Duration
	logger    *slog.Logger
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
func NewCardService(deps CardServiceDeps) (CardService, error) {
	if deps.Cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrRequiredField)
	}
	if deps.Statuses == nil {
		return nil, domain.NewValidationError("statuses", "cannot be nil", domain.ErrRequiredField)
	}
	if deps.IDs == nil {
		return nil, domain.NewValidationError("ids", "cannot be nil", domain.ErrRequiredField)
	}
	if deps.Stamper == nil {
		return nil, domain.NewValidationError("stamper", "cannot be nil", domain.ErrRequiredField)
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &cardServiceImpl{
		cards:     deps.Cards,
		statuses:  deps.Statuses,
		ids:       deps.IDs,
		stamper:   deps.Stamper,
		emitter:   deps.Emitter,
		cache:     deps.Cache,
		statusTTL: deps.StatusTTL,
		logger:    log.With(slog.String("component", "card_service")),
	}, nil
}

// Create implements CardService.Create
func (s *cardServiceImpl) Create(ctx context.Context, input CreateCardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateNewCard(input.Name, input.Description, input.Color); err != nil {
		log.Debug("card rejected", slog.String("error", err.Error()))
		return nil, classify(err, 0)
	}

	id, err := s.ids.Next()
	if err != nil {
		log.Error("failed to generate card id", slog.String("error", err.Error()))
		return nil, classify(err, 0)
	}

	card, err := domain.NewCard(id, input.Name, input.Description, input.Color)
	if err != nil {
		return nil, classify(err, id)
	}

	err = s.cards.RunInTx(ctx, func(ctx context.Context, repo CardRepository) error {
		if err := s.stamper.Stamp(ctx, audit.Entry{Entity: card, State: audit.Added}); err != nil {
			return err
		}
		return repo.Create(ctx, card)
	})
	if err != nil {
		return nil, s.fail(ctx, "create", id, err)
	}

	log.Info("card created",
		slog.Uint64("card_id", id),
		slog.Uint64("actor_id", actor.ID))
	s.emit(ctx, events.CardCreated, id, card, actor)
	return card, nil
}

// Edit implements CardService.Edit
func (s *cardServiceImpl) Edit(ctx context.Context, input EditCardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	changes := domain.CardChanges{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		StatusID:    input.StatusID,
	}
	if err := changes.Validate(); err != nil {
		log.Debug("card changes rejected",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", input.ID))
		return nil, classify(err, input.ID)
	}

	var card *domain.Card
	err = s.cards.RunInTx(ctx, func(ctx context.Context, repo CardRepository) error {
		current, err := repo.GetForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		if !auth.Authorize(actor, current.OwnerID()) {
			return forbidden(CodeEditForbidden, "edit")
		}
		if err := current.Apply(changes); err != nil {
			return err
		}
		if err := s.stamper.Stamp(ctx, audit.Entry{Entity: current, State: audit.Modified}); err != nil {
			return err
		}
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		card = current
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "edit", input.ID, err)
	}

	log.Info("card edited",
		slog.Uint64("card_id", card.ID),
		slog.Uint64("actor_id", actor.ID))
	s.emit(ctx, events.CardUpdated, card.ID, card, actor)
	return card, nil
}

// Get implements CardService.Get
func (s *cardServiceImpl) Get(ctx context.Context, id uint64) (*domain.Card, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", id, err)
	}
	if !auth.Authorize(actor, card.OwnerID()) {
		return nil, s.fail(ctx, "get", id, forbidden(CodeGetForbidden, "retrieve"))
	}
	return card, nil
}

// Delete implements CardService.Delete
func (s *cardServiceImpl) Delete(ctx context.Context, id uint64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	var card *domain.Card
	err = s.cards.RunInTx(ctx, func(ctx context.Context, repo CardRepository) error {
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !auth.Authorize(actor, current.OwnerID()) {
			return forbidden(CodeDeleteForbidden, "delete")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		card = current
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "delete", id, err)
	}

	log.Info("card deleted",
		slog.Uint64("card_id", id),
		slog.Uint64("actor_id", actor.ID))
	s.emit(ctx, events.CardDeleted, id, nil, actor)
	return card, nil
}

// Search implements CardService.Search
func (s *cardServiceImpl) Search(ctx context.Context, params search.Params) (search.Page, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	actor, err := requireActor(ctx)
	if err != nil {
		return search.Page{}, err
	}

	page, err := search.Run(ctx, s.cards, params, auth.Scope(actor))
	if err != nil {
		log.Error("card search failed", slog.String("error", err.Error()))
		return search.Page{}, classify(err, 0)
	}

	log.Debug("card search completed",
		slog.Int("total", page.TotalCount),
		slog.Int("page", page.Page),
		slog.Bool("admin", actor.IsAdmin))
	return page, nil
}

// ListStatuses implements CardService.ListStatuses. The list is read through
// the cache when one is configured; cache failures fall back to the store.
func (s *cardServiceImpl) ListStatuses(ctx context.Context) ([]domain.CardStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statusCacheKey)
		switch {
		case err == nil:
			var statuses []domain.CardStatus
			if err := json.Unmarshal(raw, &statuses); err == nil {
				return statuses, nil
			}
			log.Warn("discarding undecodable cached statuses")
		case !errors.Is(err, cache.ErrMiss):
			log.Warn("status cache read failed", slog.String("error", err.Error()))
		}
	}

	statuses, err := s.statuses.List(ctx)
	if err != nil {
		log.Error("failed to list card statuses", slog.String("error", err.Error()))
		return nil, classify(err, 0)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(statuses); err == nil {
			if err := s.cache.Set(ctx, statusCacheKey, raw, s.statusTTL); err != nil {
				log.Warn("status cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return statuses, nil
}

// fail classifies err and logs it at a level matching its kind.
func (s *cardServiceImpl) fail(ctx context.Context, op string, cardID uint64, err error) *Error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	svcErr := classify(err, cardID)

	attrs := []any{
		slog.String("operation", op),
		slog.Uint64("card_id", cardID),
		slog.String("code", svcErr.Code),
	}
	if svcErr.Kind == KindUnhandled {
		log.Error("card operation failed", append(attrs, slog.String("error", err.Error()))...)
	} else {
		log.Debug("card operation rejected", attrs...)
	}
	return svcErr
}

// emit publishes a card event. Publishing happens after commit, so a failure
// is logged and the operation still succeeds.
func (s *cardServiceImpl) emit(ctx context.Context, eventType string, cardID uint64, card *domain.Card, actor auth.Actor) {
	if s.emitter == nil {
		return
	}

	if card != nil {
		snapshot := *card
		card = &snapshot
	}

	if err := s.emitter.EmitEvent(ctx, events.NewCardEvent(eventType, cardID, actor.ID, card)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit card event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.Uint64("card_id", cardID))
	}
}

func requireActor(ctx context.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return auth.Actor{}, unauthenticated(auth.ErrUnauthenticated)
	}
	return actor, nil
}
