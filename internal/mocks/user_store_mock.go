package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

func userOrNil(args mock.Arguments) (*domain.User, error) {
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return userOrNil(m.Called(ctx, id))
}

// GetByEmail is a mock implementation of store.UserStore.GetByEmail
func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, email))
}

// GetByIDAndToken is a mock implementation of store.UserStore.GetByIDAndToken
func (m *TestifyMockUserStore) GetByIDAndToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) (*domain.User, error) {
	return userOrNil(m.Called(ctx, id, token))
}

// Update is a mock implementation of store.UserStore.Update
func (m *TestifyMockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// Delete is a mock implementation of store.UserStore.Delete
func (m *TestifyMockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// AddToken is a mock implementation of store.UserStore.AddToken
func (m *TestifyMockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

// RemoveToken is a mock implementation of store.UserStore.RemoveToken
func (m *TestifyMockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

// RemoveAllTokens is a mock implementation of store.UserStore.RemoveAllTokens
func (m *TestifyMockUserStore) RemoveAllTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// SetAvatar is a mock implementation of store.UserStore.SetAvatar
func (m *TestifyMockUserStore) SetAvatar(ctx context.Context, userID uuid.UUID, image []byte) error {
	return m.Called(ctx, userID, image).Error(0)
}

// GetAvatar is a mock implementation of store.UserStore.GetAvatar
func (m *TestifyMockUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	if image, ok := args.Get(0).([]byte); ok {
		return image, args.Error(1)
	}
	return nil, args.Error(1)
}
