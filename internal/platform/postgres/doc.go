// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It also owns the
// embedded schema migrations and maps driver errors onto store errors.
package postgres
