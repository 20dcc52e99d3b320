package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/cards-api/internal/platform/postgres"
	"github.com/phrazzld/cards-api/internal/store"
	"github.com/stretchr/testify/assert"
)

// Mock PgError creation helper
func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		Detail:         "error details",
		Hint:           "error hint",
		Position:       0,
		InternalQuery:  "",
		Where:          "",
		SchemaName:     "public",
		TableName:      "test_table",
		ColumnName:     "test_column",
		DataTypeName:   "",
		ConstraintName: "test_constraint",
		File:           "postgres.go",
		Line:           100,
		Routine:        "test_routine",
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	lastInsertId int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) {
	return m.lastInsertId, m.err
}

func (m MockResult) RowsAffected() (int64, error) {
	return m.rowsAffected, m.err
}

// TestIsUniqueViolation tests the IsUniqueViolation function
func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "non-postgres error",
			err:      errors.New("generic error"),
			expected: false,
		},
		{
			name:     "unique violation",
			err:      newPgError("23505"),
			expected: true,
		},
		{
			name:     "foreign key violation",
			err:      newPgError("23503"),
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := postgres.IsUniqueViolation(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestMapError tests mapping of driver errors onto store errors
func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), target: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), target: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{
			name:   "wrapped unique violation",
			err:    fmt.Errorf("exec: %w", newPgError("23505")),
			target: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		t.Parallel()
		err := errors.New("connection reset")
		assert.Same(t, err, postgres.MapError(err))
	})

	t.Run("original pg error remains inspectable", func(t *testing.T) {
		t.Parallel()
		var pgErr *pgconn.PgError
		mapped := postgres.MapError(newPgError("23503"))
		assert.False(t, errors.As(mapped, &pgErr), "message-only wrap must not leak the driver error type")
		assert.Contains(t, mapped.Error(), "test_constraint")
	})
}

// TestCheckRowsAffected tests the CheckRowsAffected function
func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.CheckRowsAffected(MockResult{rowsAffected: 1}, store.ErrCardNotFound))
	})

	t.Run("no rows returns specific error", func(t *testing.T) {
		t.Parallel()
		err := postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, store.ErrCardNotFound)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("no rows falls back to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		err := postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("result error", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("driver does not support rows affected")
		err := postgres.CheckRowsAffected(MockResult{err: cause}, store.ErrCardNotFound)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, postgres.CheckRowsAffected(nil, store.ErrCardNotFound))
	})
}

// TestMapUniqueViolation tests constraint-specific duplicate mapping
func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	matching := newPgError("23505")
	matching.ConstraintName = "users_normalized_email_key"

	err := postgres.MapUniqueViolation(matching, "users_normalized_email_key", store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	other := newPgError("23505")
	err = postgres.MapUniqueViolation(other, "users_normalized_email_key", store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NotErrorIs(t, err, store.ErrEmailExists)

	plain := errors.New("boom")
	assert.Same(t, plain, postgres.MapUniqueViolation(plain, "users_normalized_email_key", store.ErrEmailExists))
}
