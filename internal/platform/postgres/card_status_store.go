package postgres

import (
	"context"
	"log/slog"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/store"
)

// PostgresCardStatusStore reads the seeded card_statuses table.
type PostgresCardStatusStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStatusStore creates a card status store. A nil logger falls
// back to slog.Default.
func NewPostgresCardStatusStore(db store.DBTX, logger *slog.Logger) *PostgresCardStatusStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStatusStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_status_store")),
	}
}

var _ store.CardStatusStore = (*PostgresCardStatusStore)(nil)

// List implements store.CardStatusStore.List
func (s *PostgresCardStatusStore) List(ctx context.Context) ([]domain.CardStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, modified_at FROM card_statuses ORDER BY id`)
	if err != nil {
		log.Error("failed to list card statuses", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	statuses := []domain.CardStatus{}
	for rows.Next() {
		var (
			st domain.CardStatus
			id int16
		)
		if err := rows.Scan(&id, &st.Name, &st.CreatedAt, &st.ModifiedAt); err != nil {
			return nil, MapError(err)
		}
		st.ID = domain.CardStatusID(id)
		st.CreatedAt = st.CreatedAt.UTC()
		st.ModifiedAt = st.ModifiedAt.UTC()
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if len(statuses) == 0 {
		return nil, store.ErrCardStatusNotFound
	}
	return statuses, nil
}
