package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Every read and write is scoped to an owner.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// List returns the owner's tasks filtered, ordered and paginated per q.
	// An owner with no matching tasks yields an empty, non-nil slice.
	List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)

	// GetByIDAndOwner retrieves a task by the combined id and owner predicate.
	// Returns ErrTaskNotFound if no task matches.
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// Update writes description and completed of a task owned by task.OwnerID.
	// Returns ErrTaskNotFound if no task matches.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteByIDAndOwner removes a task and returns it as it was.
	// Returns ErrTaskNotFound if no task matches.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// DeleteByOwner removes every task of the owner and reports how many.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
