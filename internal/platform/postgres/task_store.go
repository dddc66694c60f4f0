package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create persists a new task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", task.ID.String()),
			slog.Any("error", err))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	return nil
}

// List returns the owner's tasks shaped by q.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListTasksQuery(ownerID, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("owner_id", ownerID.String()),
			slog.Any("error", err))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.Any("error", closeErr))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "row iteration failed", err)
	}

	return tasks, nil
}

// GetByIDAndOwner retrieves a task through the combined id and owner predicate.
func (s *PostgresTaskStore) GetByIDAndOwner(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return s.scanTaskRow(ctx, row, "get")
}

// Update writes the mutable task fields.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	task.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5`,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("task_id", task.ID.String()),
			slog.Any("error", err))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteByIDAndOwner removes a task and returns the deleted row.
func (s *PostgresTaskStore) DeleteByIDAndOwner(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING `+taskColumns, id, ownerID)
	return s.scanTaskRow(ctx, row, "delete")
}

// DeleteByOwner removes all of the owner's tasks.
func (s *PostgresTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete owner tasks",
			slog.String("owner_id", ownerID.String()),
			slog.Any("error", err))
		return 0, store.NewStoreError("task", "delete_by_owner", "delete failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("task", "delete_by_owner", "rows affected unavailable", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *PostgresTaskStore) scanTaskRow(ctx context.Context, row *sql.Row, op string) (*domain.Task, error) {
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query task",
			slog.String("operation", op),
			slog.Any("error", err))
		return nil, store.NewStoreError("task", op, "query failed", MapError(err))
	}
	return task, nil
}
