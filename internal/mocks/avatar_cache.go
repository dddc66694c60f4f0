package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockAvatarCache implements store.AvatarCache with an in-memory map.
type MockAvatarCache struct {
	GetFn        func(ctx context.Context, userID uuid.UUID) ([]byte, bool, error)
	SetFn        func(ctx context.Context, userID uuid.UUID, image []byte) error
	InvalidateFn func(ctx context.Context, userID uuid.UUID) error

	mu          sync.Mutex
	Entries     map[uuid.UUID][]byte
	Invalidated []uuid.UUID
}

var _ store.AvatarCache = (*MockAvatarCache)(nil)

// NewMockAvatarCache creates an empty cache.
func NewMockAvatarCache() *MockAvatarCache {
	return &MockAvatarCache{Entries: make(map[uuid.UUID][]byte)}
}

// Get implements store.AvatarCache
func (m *MockAvatarCache) Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	image, ok := m.Entries[userID]
	return image, ok, nil
}

// Set implements store.AvatarCache
func (m *MockAvatarCache) Set(ctx context.Context, userID uuid.UUID, image []byte) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, userID, image)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[userID] = image
	return nil
}

// Invalidate implements store.AvatarCache
func (m *MockAvatarCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if m.InvalidateFn != nil {
		return m.InvalidateFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, userID)
	m.Invalidated = append(m.Invalidated, userID)
	return nil
}
