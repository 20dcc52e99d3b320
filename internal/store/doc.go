// Package store defines the persistence ports for cards, card statuses and
// users, together with the shared store errors and the transaction helper.
// Implementations live in internal/platform/postgres.
package store
