package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/store"
)

const cardColumns = `c.id, c.name, c.description, c.color, c.status_id, c.created_by_id,
		c.modified_by_id, c.created_at, c.modified_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", card.ID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (id, name, description, color, status_id, created_by_id,
			modified_by_id, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		int64(card.ID),
		card.Name,
		nullString(card.Description),
		nullString(card.Color),
		int16(card.StatusID),
		int64(card.CreatedByID),
		nullID(card.ModifiedByID),
		card.CreatedAt,
		card.ModifiedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", card.ID))
		return MapError(err)
	}

	log.Debug("card created", slog.Uint64("card_id", card.ID))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uint64) (*domain.Card, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.CardStore.GetForUpdate
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uint64) (*domain.Card, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresCardStore) get(ctx context.Context, id uint64, lock bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards c WHERE c.id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.Uint64("card_id", id))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", id))
		return nil, MapError(err)
	}
	return card, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", card.ID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET name = $1, description = $2, color = $3, status_id = $4,
			modified_by_id = $5, modified_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		card.Name,
		nullString(card.Description),
		nullString(card.Color),
		int16(card.StatusID),
		nullID(card.ModifiedByID),
		card.ModifiedAt,
		int64(card.ID),
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", card.ID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uint64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, int64(id))
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Uint64("card_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Search implements store.CardStore.Search
func (s *PostgresCardStore) Search(ctx context.Context, c search.Criteria) ([]*domain.Card, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	q := buildSearchQuery(c)

	var total int
	if err := s.db.QueryRowContext(ctx, q.count, q.args...).Scan(&total); err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("filter", c.Filter.Kind.String()))
		return nil, 0, MapError(err)
	}

	if total == 0 || c.Offset() >= total {
		return []*domain.Card{}, total, nil
	}
	cards := make([]*domain.Card, 0, min(c.Limit(), total-c.Offset()))

	rows, err := s.db.QueryContext(ctx, q.page, q.pageArgs...)
	if err != nil {
		log.Error("failed to search cards",
			slog.String("error", err.Error()),
			slog.String("filter", c.Filter.Kind.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, 0, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	log.Debug("card search completed",
		slog.String("filter", c.Filter.Kind.String()),
		slog.Int("total", total),
		slog.Int("returned", len(cards)))
	return cards, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card        domain.Card
		id          int64
		description sql.NullString
		color       sql.NullString
		statusID    int16
		createdBy   int64
		modifiedBy  sql.NullInt64
	)
	err := row.Scan(
		&id,
		&card.Name,
		&description,
		&color,
		&statusID,
		&createdBy,
		&modifiedBy,
		&card.CreatedAt,
		&card.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	card.ID = uint64(id)
	card.StatusID = domain.CardStatusID(statusID)
	card.CreatedByID = uint64(createdBy)
	if description.Valid {
		card.Description = &description.String
	}
	if color.Valid {
		card.Color = &color.String
	}
	if modifiedBy.Valid {
		m := uint64(modifiedBy.Int64)
		card.ModifiedByID = &m
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.ModifiedAt = card.ModifiedAt.UTC()
	return &card, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullID(id *uint64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}
