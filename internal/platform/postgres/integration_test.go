//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/postgres"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startDatabase runs a disposable PostgreSQL with the schema migrated up.
// Run with: go test -tags=integration ./internal/platform/postgres/...
func startDatabase(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cards"),
		tcpostgres.WithUsername("cards"),
		tcpostgres.WithPassword("cards"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, "up", nil))
	return db
}

func TestStoresAgainstPostgres(t *testing.T) {
	db := startDatabase(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	users := postgres.NewPostgresUserStore(db, nil)
	cards := postgres.NewPostgresCardStore(db, nil)

	owner := &domain.User{
		ID: 100, FirstName: "Ada", LastName: "Member", Email: "member@cards.com",
		PasswordHash: "hash", Roles: []string{domain.RoleMember}, CreatedAt: now, ModifiedAt: now,
	}
	require.NoError(t, store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return users.WithTx(tx).Create(ctx, owner)
	}))

	dup := *owner
	dup.ID = 101
	dup.Email = "MEMBER@cards.com"
	assert.ErrorIs(t, users.Create(ctx, &dup), store.ErrEmailExists)

	loaded, err := users.GetByEmail(ctx, "Member@Cards.com")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleMember}, loaded.Roles)

	names := []string{"Alpha card", "beta card", "Gamma card"}
	for i, name := range names {
		c, err := domain.NewCard(uint64(200+i), name, nil, nil)
		require.NoError(t, err)
		c.CreatedByID = owner.ID
		c.CreatedAt = now
		c.ModifiedAt = now
		require.NoError(t, cards.Create(ctx, c))
	}

	got, err := cards.GetByID(ctx, 201)
	require.NoError(t, err)
	assert.Equal(t, "beta card", got.Name)
	assert.Equal(t, domain.StatusToDo, got.StatusID)

	page, total, err := cards.Search(ctx, search.Criteria{
		Scope:    search.OwnedBy(owner.ID),
		Filter:   search.Filter{Kind: search.FilterName, Name: "CARD"},
		Sort:     search.SortByName,
		Order:    search.Descending,
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Gamma card", page[0].Name)

	_, total, err = cards.Search(ctx, search.Criteria{Scope: search.OwnedBy(999), Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, cards.Delete(ctx, 201))
	_, err = cards.GetByID(ctx, 201)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	statuses, err := postgres.NewPostgresCardStatusStore(db, nil).List(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 3)

	require.NoError(t, postgres.Migrate(ctx, db, "version", nil))
}
