package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/cards-api/internal/platform/logger"
)

// ErrNilEvent is returned by EmitEvent when called without an event.
var ErrNilEvent = errors.New("nil card event")

// InMemoryEventEmitter delivers each event synchronously to every registered
// handler, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "card_event_emitter")),
	}
}

// RegisterHandler adds handler to the delivery list.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	if handler == nil {
		return
	}
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("registered card event handler",
		slog.String("handler", fmt.Sprintf("%T", handler)),
		slog.Int("handler_count", count))
}

// EmitEvent delivers event to every handler. A failing or panicking handler
// does not stop delivery to the rest; all failures are joined into the
// returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *CardEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Uint64("card_id", event.CardID))

	var errs []error
	for _, handler := range handlers {
		if err := deliver(ctx, handler, event); err != nil {
			log.Error("card event handler failed",
				slog.String("handler", fmt.Sprintf("%T", handler)),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	log.Debug("card event emitted",
		slog.Int("handler_count", len(handlers)),
		slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func deliver(ctx context.Context, handler EventHandler, event *CardEvent) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%T panicked: %v", handler, p)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
