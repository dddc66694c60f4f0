package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

func taskOrNil(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// List is a mock implementation of store.TaskStore.List
func (m *TestifyMockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, q)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByIDAndOwner is a mock implementation of store.TaskStore.GetByIDAndOwner
func (m *TestifyMockTaskStore) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	return taskOrNil(m.Called(ctx, id, ownerID))
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TestifyMockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// DeleteByIDAndOwner is a mock implementation of store.TaskStore.DeleteByIDAndOwner
func (m *TestifyMockTaskStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	return taskOrNil(m.Called(ctx, id, ownerID))
}

// DeleteByOwner is a mock implementation of store.TaskStore.DeleteByOwner
func (m *TestifyMockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
