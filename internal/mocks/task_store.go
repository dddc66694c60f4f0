package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Without function
// fields it keeps tasks in memory and mirrors the Postgres listing rules.
type MockTaskStore struct {
	CreateFn             func(ctx context.Context, task *domain.Task) error
	ListFn               func(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)
	GetByIDAndOwnerFn    func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	UpdateFn             func(ctx context.Context, task *domain.Task) error
	DeleteByIDAndOwnerFn func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	DeleteByOwnerFn      func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[uuid.UUID]*domain.Task)}
}

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *task
	m.Tasks[task.ID] = &stored
	return nil
}

// List implements store.TaskStore
func (m *MockTaskStore) List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, q)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if q.Completed != nil && task.Completed != *q.Completed {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}

	desc := q.SortDirection == domain.SortDesc
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if c := compareTasks(a, b, q.SortField); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})

	if q.Skip > 0 {
		if q.Skip >= len(tasks) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < len(tasks) {
		tasks = tasks[:q.Limit]
	}
	return tasks, nil
}

func compareTasks(a, b *domain.Task, field domain.TaskSortField) int {
	switch field {
	case domain.TaskSortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case domain.TaskSortDescription:
		switch {
		case a.Description < b.Description:
			return -1
		case a.Description > b.Description:
			return 1
		}
		return 0
	case domain.TaskSortCompleted:
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		}
		return 1
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// GetByIDAndOwner implements store.TaskStore
func (m *MockTaskStore) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetByIDAndOwnerFn != nil {
		return m.GetByIDAndOwnerFn(ctx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// Update implements store.TaskStore
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	stored := *task
	m.Tasks[task.ID] = &stored
	return nil
}

// DeleteByIDAndOwner implements store.TaskStore
func (m *MockTaskStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.DeleteByIDAndOwnerFn != nil {
		return m.DeleteByIDAndOwnerFn(ctx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return task, nil
}

// DeleteByOwner implements store.TaskStore
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
			n++
		}
	}
	return n, nil
}

// CountForOwner reports how many tasks ownerID holds.
func (m *MockTaskStore) CountForOwner(ownerID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.Tasks {
		if task.OwnerID == ownerID {
			n++
		}
	}
	return n
}
