package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/platform/redis"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	userStore    store.UserStore
	taskStore    store.TaskStore
	avatarCache  store.AvatarCache
	tokenService *auth.TokenService
	userService  service.UserService
	taskService  service.TaskService
}

// newApplication wires stores, services and the optional avatar cache.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.avatarCache, err = app.setupAvatarCache(ctx)
	if err != nil {
		return nil, err
	}

	app.tokenService = auth.NewTokenService(jwtService, app.userStore, logger)
	app.userService = service.NewUserService(
		app.userStore,
		app.taskStore,
		app.tokenService,
		auth.NewBcryptVerifier(cfg.Auth.BcryptCost),
		app.avatarCache,
		logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupAvatarCache connects to Redis when configured. Without a URL avatars
// are always read from Postgres.
func (app *application) setupAvatarCache(ctx context.Context) (store.AvatarCache, error) {
	if app.config.Cache.RedisURL == "" {
		return redis.NoopAvatarCache{}, nil
	}

	client, err := redis.NewClient(ctx, app.config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect avatar cache: %w", err)
	}
	app.redis = client

	ttl := time.Duration(app.config.Cache.AvatarTTLSeconds) * time.Second
	app.logger.Info("Avatar cache enabled", "ttl", ttl)
	return redis.NewAvatarCache(client, ttl, app.logger), nil
}

// Run serves HTTP until ctx is canceled, then cleans up.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database pool and Redis client.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
