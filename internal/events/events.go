package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cards-api/internal/domain"
)

// Card event types.
const (
	CardCreated = "card.created"
	CardUpdated = "card.updated"
	CardDeleted = "card.deleted"
)

// CardEvent records a committed change to a card.
type CardEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of CardCreated, CardUpdated or CardDeleted
	Type string `json:"type"`

	// CardID is serialized as a string so clients without 64-bit integers
	// read it intact.
	CardID uint64 `json:"card_id,string"`

	// ActorID is the user who made the change.
	ActorID uint64 `json:"actor_id,string"`

	// Card is the state after the change. It is nil for deletions.
	Card *domain.Card `json:"card,omitempty"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCardEvent creates a CardEvent with a fresh id.
func NewCardEvent(eventType string, cardID, actorID uint64, card *domain.Card) *CardEvent {
	return &CardEvent{
		ID:         uuid.New(),
		Type:       eventType,
		CardID:     cardID,
		ActorID:    actorID,
		Card:       card,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CardEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *CardEvent) error
}
