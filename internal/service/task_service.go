package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// TaskService provides owner-scoped task operations. A task owned by someone
// else behaves exactly like a missing one.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, upd domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask validates and stores a new task owned by ownerID.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "failed to create task", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks shaped by q.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns one of the owner's tasks.
func (s *TaskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask applies upd to one of the owner's tasks, all or nothing.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	upd domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := task.ApplyUpdate(upd); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "failed to update task", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes one of the owner's tasks and returns it.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.DeleteByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	s.logger.DebugContext(ctx, "task deleted", "task_id", taskID)
	return task, nil
}
