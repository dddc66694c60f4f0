// Package mocks provides centralized mock implementations for testing.
//
// Two styles live side by side. Mock* types expose function fields and fall
// back to simple in-memory behavior when a field is nil:
//
//	userStore := mocks.NewMockUserStore()
//	userStore.GetByIDAndTokenFn = func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
//	    return nil, store.ErrUserNotFound
//	}
//
// TestifyMock* types embed testify's mock.Mock for tests that assert on
// exact call sequences.
package mocks
