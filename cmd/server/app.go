package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cards-api/internal/api"
	"github.com/phrazzld/cards-api/internal/audit"
	"github.com/phrazzld/cards-api/internal/config"
	"github.com/phrazzld/cards-api/internal/events"
	"github.com/phrazzld/cards-api/internal/idgen"
	"github.com/phrazzld/cards-api/internal/platform/cache"
	"github.com/phrazzld/cards-api/internal/platform/postgres"
	"github.com/phrazzld/cards-api/internal/redact"
	"github.com/phrazzld/cards-api/internal/service"
	"github.com/phrazzld/cards-api/internal/service/auth"
	"github.com/phrazzld/cards-api/internal/store"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "cards:"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	cardStore store.CardStore

	// Supporting components
	ids          idgen.IDGenerator
	stamper      *audit.Stamper
	cache        cache.Cache
	redisClient  *redis.Client
	eventEmitter *events.InMemoryEventEmitter
	kafka        *events.KafkaPublisher

	// Service interfaces
	jwtService  auth.JWTService
	cardService service.CardService
	authService service.AuthService

	// healthChecks are probed by GET /health.
	healthChecks map[string]api.Pinger
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		healthChecks: map[string]api.Pinger{"database": db},
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.ids, err = idgen.New(idgen.Options{
		NodeID:        cfg.IDGen.NodeID,
		MaxClockDrift: cfg.IDGen.MaxClockDrift(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize id generator: %w", err)
	}
	app.stamper = audit.NewStamper(nil, logger)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	statusStore := postgres.NewPostgresCardStatusStore(db, logger)

	app.setupCache(ctx)

	if err := app.setupEvents(); err != nil {
		app.closeClients()
		return nil, err
	}

	app.cardService, err = service.NewCardService(service.CardServiceDeps{
		Cards:     service.NewCardRepositoryAdapter(app.cardStore, db),
		Statuses:  statusStore,
		IDs:       app.ids,
		Stamper:   app.stamper,
		Emitter:   app.eventEmitter,
		Cache:     app.cache,
		StatusTTL: cfg.Cache.StatusTTL(),
		Logger:    logger,
	})
	if err != nil {
		app.closeClients()
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.authService, err = service.NewAuthService(app.userStore, auth.NewBcryptVerifier(), app.jwtService, logger)
	if err != nil {
		app.closeClients()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupCache connects to Redis when an address is configured. An unreachable
// Redis at startup degrades to the in-process cache rather than failing.
func (app *application) setupCache(ctx context.Context) {
	cfg := app.config.Cache
	if cfg.RedisAddr == "" {
		app.cache = cache.NewMemoryCache()
		app.logger.Info("Using in-process status cache")
		return
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		app.logger.Warn("Redis unavailable, using in-process status cache",
			"error", redact.Error(err))
		app.cache = cache.NewMemoryCache()
		return
	}

	app.redisClient = client
	app.cache = cache.NewRedisCache(client, cacheKeyPrefix)
	app.healthChecks["cache"] = api.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	app.logger.Info("Using Redis status cache", "addr", cfg.RedisAddr)
}

// setupEvents creates the emitter. Events are always logged; they are also
// published to Kafka when brokers are configured.
func (app *application) setupEvents() error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(app.logger))

	cfg := app.config.Events
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}

	publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	app.kafka = publisher
	app.eventEmitter.RegisterHandler(publisher)
	app.logger.Info("Publishing card events to Kafka", "topic", cfg.KafkaTopic)
	return nil
}

// Run starts the application server and blocks until ctx is cancelled or the
// server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.closeClients()

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("Application shutdown completed")
}

// closeClients releases the connections newApplication opened itself. The
// database belongs to the caller.
func (app *application) closeClients() {
	if app.kafka != nil {
		if err := app.kafka.Close(); err != nil {
			app.logger.Error("Error closing kafka publisher", "error", redact.Error(err))
		}
	}

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", redact.Error(err))
		}
	}
}
