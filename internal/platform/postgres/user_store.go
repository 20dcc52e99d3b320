package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/store"
)

// emailConstraint is the unique constraint guarding normalized emails.
const emailConstraint = "users_normalized_email_key"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create. Role assignments are written with
// the same executor, so callers wanting atomicity bind the store to a
// transaction first.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.ID == 0 {
		return fmt.Errorf("%w: user id must be set", store.ErrInvalidEntity)
	}
	if user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("%w: email and password hash are required", store.ErrInvalidEntity)
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, normalized_email,
			password_hash, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		int64(user.ID),
		user.FirstName,
		user.LastName,
		user.Email,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.CreatedAt,
		user.ModifiedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("email already exists", slog.Uint64("user_id", user.ID))
			return MapUniqueViolation(err, emailConstraint, store.ErrEmailExists)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.Uint64("user_id", user.ID))
		return MapError(err)
	}

	for _, role := range user.Roles {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) SELECT $1, id FROM roles WHERE name = $2`,
			int64(user.ID), role)
		if err != nil {
			log.Error("failed to assign role",
				slog.String("error", err.Error()),
				slog.Uint64("user_id", user.ID),
				slog.String("role", role))
			return MapError(err)
		}
	}

	log.Debug("user created", slog.Uint64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	return s.getOne(ctx, `u.id = $1`, int64(id))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `u.normalized_email = $1`, domain.NormalizeEmail(email))
}

func (s *PostgresUserStore) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash,
			u.created_at, u.modified_at
		FROM users u
		WHERE ` + where

	var (
		user domain.User
		id   int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&id,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	user.ID = uint64(id)
	user.CreatedAt = user.CreatedAt.UTC()
	user.ModifiedAt = user.ModifiedAt.UTC()

	roles, err := s.roles(ctx, user.ID)
	if err != nil {
		log.Error("failed to load user roles",
			slog.String("error", err.Error()),
			slog.Uint64("user_id", user.ID))
		return nil, err
	}
	user.Roles = roles

	return &user, nil
}

func (s *PostgresUserStore) roles(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`, int64(userID))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, MapError(err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return roles, nil
}
