package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByIDAndTokenFn func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
	AddTokenFn        func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveTokenFn     func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllTokensFn func(ctx context.Context, userID uuid.UUID) error
	SetAvatarFn       func(ctx context.Context, userID uuid.UUID, image []byte) error
	GetAvatarFn       func(ctx context.Context, userID uuid.UUID) ([]byte, error)

	mu      sync.Mutex
	Users   map[uuid.UUID]*domain.User
	Tokens  map[uuid.UUID]map[string]bool
	Avatars map[uuid.UUID][]byte
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:   make(map[uuid.UUID]*domain.User),
		Tokens:  make(map[uuid.UUID]map[string]bool),
		Avatars: make(map[uuid.UUID][]byte),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByIDAndToken implements the UserStore interface
func (m *MockUserStore) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	if m.GetByIDAndTokenFn != nil {
		return m.GetByIDAndTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok || !m.Tokens[id][token] {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	delete(m.Tokens, id)
	delete(m.Avatars, id)
	return nil
}

// AddToken implements the UserStore interface
func (m *MockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddTokenFn != nil {
		return m.AddTokenFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[userID]; !ok {
		return store.ErrUserNotFound
	}
	if m.Tokens[userID] == nil {
		m.Tokens[userID] = make(map[string]bool)
	}
	m.Tokens[userID][token] = true
	return nil
}

// RemoveToken implements the UserStore interface
func (m *MockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveTokenFn != nil {
		return m.RemoveTokenFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tokens[userID], token)
	return nil
}

// RemoveAllTokens implements the UserStore interface
func (m *MockUserStore) RemoveAllTokens(ctx context.Context, userID uuid.UUID) error {
	if m.RemoveAllTokensFn != nil {
		return m.RemoveAllTokensFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tokens, userID)
	return nil
}

// SetAvatar implements the UserStore interface
func (m *MockUserStore) SetAvatar(ctx context.Context, userID uuid.UUID, image []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, userID, image)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[userID]; !ok {
		return store.ErrUserNotFound
	}
	if image == nil {
		delete(m.Avatars, userID)
		return nil
	}
	m.Avatars[userID] = image
	return nil
}

// GetAvatar implements the UserStore interface
func (m *MockUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	image, ok := m.Avatars[userID]
	if !ok {
		return nil, store.ErrAvatarNotFound
	}
	return image, nil
}

// TokenCount reports how many active tokens userID holds.
func (m *MockUserStore) TokenCount(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tokens[userID])
}
