package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// UnauthorizedMessage is the body of every authentication failure.
const UnauthorizedMessage = "Please authenticate."

// TokenVerifier checks a session token's signature and expiry.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// UserLookup resolves a user only while the token is in their active set.
type UserLookup interface {
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)
}

// AuthMiddleware authenticates requests carrying a session token.
type AuthMiddleware struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens TokenVerifier, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// Authenticate requires "Authorization: Bearer <token>". The token must verify
// and still belong to its user. On success the user and token are stored in
// the request context; every failure is the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.reject(w, r, errors.New("missing or malformed authorization header"))
			return
		}

		userID, err := m.tokens.Verify(r.Context(), token)
		if err != nil {
			m.reject(w, r, err)
			return
		}

		user, err := m.users.GetByIDAndToken(r.Context(), userID, token)
		if err != nil {
			if !errors.Is(err, store.ErrUserNotFound) {
				logger.FromContext(r.Context()).Error("failed to look up session",
					"error", redact.Error(err),
					"user_id", userID)
			}
			m.reject(w, r, err)
			return
		}

		ctx := shared.SetAuth(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, UnauthorizedMessage,
		errors.Join(domain.ErrUnauthorized, err))
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
