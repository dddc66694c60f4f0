package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

const userColumns = `u.id, u.name, u.email, u.age, u.hashed_password, u.created_at, u.updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
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

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user password must be hashed before storage", store.ErrInvalidEntity)
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, age, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		user.Name,
		user.Email,
		user.Age,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to insert user", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	return s.scanUser(ctx, row, "get_by_id")
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, domain.NormalizeEmail(email))
	return s.scanUser(ctx, row, "get_by_email")
}

// GetByIDAndToken implements store.UserStore.GetByIDAndToken.
// User and token membership are checked in a single statement.
func (s *PostgresUserStore) GetByIDAndToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.token = $2`,
		id, token)
	return s.scanUser(ctx, row, "get_by_id_and_token")
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user password must be hashed before storage", store.ErrInvalidEntity)
	}

	user.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, hashed_password = $4, updated_at = $5
		WHERE id = $6`,
		user.Name,
		user.Email,
		user.Age,
		user.HashedPassword,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		return store.NewStoreError("user", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete.
// Session tokens go with the user through ON DELETE CASCADE. Tasks do not.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user", slog.String("user_id", id.String()), slog.Any("error", err))
		return store.NewStoreError("user", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// AddToken implements store.UserStore.AddToken
func (s *PostgresUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, token, created_at) VALUES ($1, $2, $3)`,
		userID, token, time.Now().UTC())
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		return store.NewStoreError("user_token", "create", "insert failed", MapError(err))
	}
	return nil
}

// RemoveToken implements store.UserStore.RemoveToken
func (s *PostgresUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return store.NewStoreError("user_token", "delete", "delete failed", MapError(err))
	}
	return nil
}

// RemoveAllTokens implements store.UserStore.RemoveAllTokens
func (s *PostgresUserStore) RemoveAllTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return store.NewStoreError("user_token", "delete_all", "delete failed", MapError(err))
	}
	return nil
}

// SetAvatar implements store.UserStore.SetAvatar
func (s *PostgresUserStore) SetAvatar(ctx context.Context, userID uuid.UUID, image []byte) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET avatar = $1, updated_at = $2 WHERE id = $3`,
		image, time.Now().UTC(), userID)
	if err != nil {
		return store.NewStoreError("user", "set_avatar", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// GetAvatar implements store.UserStore.GetAvatar
func (s *PostgresUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var image []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT avatar FROM users WHERE id = $1 AND avatar IS NOT NULL`, userID).Scan(&image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAvatarNotFound
		}
		return nil, store.NewStoreError("user", "get_avatar", "query failed", MapError(err))
	}
	return image, nil
}

func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row, op string) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Age,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to query user", slog.String("operation", op), slog.Any("error", err))
		return nil, store.NewStoreError("user", op, "query failed", MapError(err))
	}
	return &user, nil
}
