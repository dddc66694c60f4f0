package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceWithMockJWT(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("generate failure stores nothing", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		jwtService := &mocks.MockJWTService{Err: errors.New("signing key unavailable")}
		svc := auth.NewTokenService(jwtService, users, nil)

		_, err := svc.Issue(ctx, userID)
		assert.ErrorContains(t, err, "failed to generate token")
		assert.Zero(t, users.TokenCount(userID))
	})

	t.Run("verify returns the embedded user id", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{Claims: &auth.Claims{UserID: userID}}
		svc := auth.NewTokenService(jwtService, mocks.NewMockUserStore(), nil)

		got, err := svc.Verify(ctx, "opaque")
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("verify passes validation errors through", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken}
		svc := auth.NewTokenService(jwtService, mocks.NewMockUserStore(), nil)

		_, err := svc.Verify(ctx, "opaque")
		assert.ErrorIs(t, err, auth.ErrExpiredToken)

		_, err = svc.Verify(ctx, "")
		assert.ErrorIs(t, err, auth.ErrMissingToken)
	})
}
