// Package audit fills in creation and modification metadata on entities
// immediately before they are written.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/service/auth"
)

// Auditable is implemented by entities that record when they were created and
// last modified.
type Auditable interface {
	SetCreatedAt(time.Time)
	SetModifiedAt(time.Time)
	CreationTime() time.Time
}

// AuditableWithActor is implemented by entities that also record who created
// and last modified them.
type AuditableWithActor interface {
	Auditable
	SetCreatedByID(uint64)
	SetModifiedByID(uint64)
}

// State is the pending change for an entity.
type State int

const (
	// Added marks an entity about to be inserted.
	Added State = iota + 1
	// Modified marks an entity about to be updated.
	Modified
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is one entity pending a write.
type Entry struct {
	Entity any
	State  State
}

// Stamper writes audit metadata. The zero value is not usable; call NewStamper.
type Stamper struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewStamper creates a Stamper. A nil now uses time.Now and a nil logger uses
// slog.Default().
func NewStamper(now func() time.Time, logger *slog.Logger) *Stamper {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stamper{
		now:    now,
		logger: logger.With(slog.String("component", "audit_stamper")),
	}
}

// Stamp applies audit metadata to every entry. The clock and the actor are
// read once, so all entries in a call share the same values. Entities that are
// not Auditable are skipped.
//
// If any entry needs an actor and ctx carries none, Stamp returns
// auth.ErrUnauthenticated without modifying anything.
func (s *Stamper) Stamp(ctx context.Context, entries ...Entry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	needsActor := false
	for _, e := range entries {
		if e.State != Added && e.State != Modified {
			continue
		}
		if _, ok := e.Entity.(AuditableWithActor); ok {
			needsActor = true
			break
		}
	}

	var actor auth.Actor
	if needsActor {
		var ok bool
		actor, ok = auth.ActorFromContext(ctx)
		if !ok {
			log.Warn("refusing to stamp actor-audited entities without an actor",
				slog.Int("entries", len(entries)))
			return auth.ErrUnauthenticated
		}
	}

	now := s.now().UTC()

	for _, e := range entries {
		a, ok := e.Entity.(Auditable)
		if !ok {
			continue
		}
		withActor, hasActor := e.Entity.(AuditableWithActor)

		switch e.State {
		case Added:
			a.SetCreatedAt(now)
			a.SetModifiedAt(now)
			if hasActor {
				withActor.SetCreatedByID(actor.ID)
			}
		case Modified:
			modified := now
			if created := a.CreationTime(); modified.Before(created) {
				modified = created
			}
			a.SetModifiedAt(modified)
			if hasActor {
				withActor.SetModifiedByID(actor.ID)
			}
		}
	}

	return nil
}
