package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	ErrTaskIDEmpty          = NewValidationError("id", "cannot be empty", nil)
	ErrTaskOwnerEmpty       = NewValidationError("owner", "cannot be empty", nil)
	ErrTaskDescriptionEmpty = NewValidationError("description", "is required", nil)
)

// Task is a unit of work owned by exactly one user.
// OwnerID is fixed at creation.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task for ownerID with a trimmed description.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(description),
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerEmpty
	}
	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}
	return nil
}

// TaskUpdate carries the optional fields of a task update.
type TaskUpdate struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskUpdatableFields is the allowlist for task updates.
var TaskUpdatableFields = []string{"description", "completed"}

// ApplyUpdate applies upd to the task, all or nothing.
func (t *Task) ApplyUpdate(upd TaskUpdate) error {
	next := *t

	if upd.Description != nil {
		next.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Completed != nil {
		next.Completed = *upd.Completed
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}
