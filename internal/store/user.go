package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// UserStore defines the interface for user, session token and avatar persistence.
type UserStore interface {
	// Create saves a new user. The caller must have set HashedPassword;
	// the store never hashes.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDAndToken retrieves a user only if token is in their active set.
	// Returns ErrUserNotFound when either the user or the token is missing.
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error)

	// Update writes name, email, age and HashedPassword of an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user and their session tokens.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToken appends token to the user's active set.
	AddToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveToken drops one token from the user's set. Removing an absent
	// token is not an error.
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAllTokens empties the user's set.
	RemoveAllTokens(ctx context.Context, userID uuid.UUID) error

	// SetAvatar replaces the stored avatar image. A nil image clears it.
	// Returns ErrUserNotFound if the user does not exist.
	SetAvatar(ctx context.Context, userID uuid.UUID, image []byte) error

	// GetAvatar returns the stored avatar image.
	// Returns ErrAvatarNotFound if the user does not exist or has no avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}
