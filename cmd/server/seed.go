package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cards-api/internal/audit"
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/idgen"
	"github.com/phrazzld/cards-api/internal/service/auth"
	"github.com/phrazzld/cards-api/internal/store"
)

// defaultUsers are the accounts created on first start when seeding is enabled.
var defaultUsers = []domain.User{
	{FirstName: "Ava", LastName: "Maya", Email: "member@cards.com", Roles: []string{domain.RoleMember}},
	{FirstName: "Amani", LastName: "Jones", Email: "admin@cards.com", Roles: []string{domain.RoleAdmin}},
}

func (app *application) seedDefaultUsers(ctx context.Context) error {
	return seedUsers(ctx, seedDeps{
		db:      app.db,
		users:   app.userStore,
		ids:     app.ids,
		stamper: app.stamper,
		logger:  app.logger,
	}, app.config.Seed.DefaultPassword, defaultUsers)
}

type seedDeps struct {
	db      *sql.DB
	users   store.UserStore
	ids     idgen.IDGenerator
	stamper *audit.Stamper
	logger  *slog.Logger
}

// seedUsers creates every account in accounts whose email is not yet taken.
// Existing accounts are left untouched, so seeding can run on every start.
func seedUsers(ctx context.Context, deps seedDeps, password string, accounts []domain.User) error {
	var hash string

	for _, account := range accounts {
		_, err := deps.users.GetByEmail(ctx, account.Email)
		if err == nil {
			deps.logger.Debug("seed user already exists", "email", account.Email)
			continue
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("failed to look up %s: %w", account.Email, err)
		}

		if hash == "" {
			hash, err = auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash seed password: %w", err)
			}
		}

		user := account
		user.Roles = append([]string(nil), account.Roles...)
		user.PasswordHash = hash
		user.ID, err = deps.ids.Next()
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}
		if err := deps.stamper.Stamp(ctx, audit.Entry{Entity: &user, State: audit.Added}); err != nil {
			return fmt.Errorf("failed to stamp user: %w", err)
		}

		err = store.RunInTransaction(ctx, deps.db, func(ctx context.Context, tx *sql.Tx) error {
			return deps.users.WithTx(tx).Create(ctx, &user)
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", account.Email, err)
		}
		deps.logger.Info("seeded user", "user_id", user.ID, "roles", user.Roles)
	}
	return nil
}
