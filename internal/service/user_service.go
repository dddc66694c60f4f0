package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/imaging"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// TokenIssuer issues and revokes session tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Credentials hashes and checks passwords.
type Credentials interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// UserService provides account, session and avatar operations.
type UserService interface {
	// Register validates and stores a new user and issues their first token.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)

	// Login issues a new token when email and password match.
	// Every failure is reported as domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Logout revokes the token used for the current request.
	Logout(ctx context.Context, userID uuid.UUID, token string) error

	// LogoutAll revokes every token of the user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// UpdateProfile applies an update to user, all or nothing.
	UpdateProfile(ctx context.Context, user *domain.User, upd domain.UserUpdate) (*domain.User, error)

	// DeleteAccount deletes the user's tasks, then the user.
	DeleteAccount(ctx context.Context, user *domain.User) error

	// SetAvatar normalizes an uploaded image and stores it.
	SetAvatar(ctx context.Context, userID uuid.UUID, upload []byte) error

	// ClearAvatar removes the stored avatar. Clearing twice is not an error.
	ClearAvatar(ctx context.Context, userID uuid.UUID) error

	// GetAvatar returns the stored PNG avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore   store.UserStore
	taskStore   store.TaskStore
	tokens      TokenIssuer
	credentials Credentials
	avatars     store.AvatarCache
	logger      *slog.Logger

	// avatarMu orders avatar writes against their cache updates.
	avatarMu sync.Mutex

	dummyOnce sync.Once
	dummyHash string
}

// dummyPassword is hashed once to give unknown-email logins a real
// comparison to run.
const dummyPassword = "no-such-account-placeholder"

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService. A nil avatar cache disables caching.
func NewUserService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	tokens TokenIssuer,
	credentials Credentials,
	avatars store.AvatarCache,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:   userStore,
		taskStore:   taskStore,
		tokens:      tokens,
		credentials: credentials,
		avatars:     avatars,
		logger:      logger.With("component", "user_service"),
	}
}

// Register creates the user and issues a token.
func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	user, err := domain.NewUser(in.Name, in.Email, in.Password, in.Age)
	if err != nil {
		return nil, "", err
	}

	if err := s.hashPassword(user); err != nil {
		return nil, "", err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			s.logger.ErrorContext(ctx, "failed to save user", "error", err)
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "user created but token issue failed",
			"error", err,
			"user_id", user.ID)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates by email and password.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.compareDummy(password)
			s.logger.DebugContext(ctx, "login failed: unknown email")
			return nil, "", domain.ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to look up user for login", "error", err)
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.credentials.Compare(user.HashedPassword, password); err != nil {
		s.logger.DebugContext(ctx, "login failed: password mismatch", "user_id", user.ID)
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// Logout revokes a single token.
func (s *UserServiceImpl) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.tokens.Revoke(ctx, userID, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to log out", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// LogoutAll revokes every token of the user.
func (s *UserServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to log out all sessions", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// UpdateProfile validates the whole update before writing anything.
// A new password is hashed before it reaches the store.
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	user *domain.User,
	upd domain.UserUpdate,
) (*domain.User, error) {
	updated := *user
	if err := updated.ApplyUpdate(upd); err != nil {
		return nil, err
	}

	if updated.Password != "" {
		if err := s.hashPassword(&updated); err != nil {
			return nil, err
		}
	}

	if err := s.userStore.Update(ctx, &updated); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			s.logger.ErrorContext(ctx, "failed to update user", "error", err, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// DeleteAccount removes the user's tasks and then the user. The two deletes
// are independent statements; a failure after the first leaves the user
// without tasks.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, user *domain.User) error {
	removed, err := s.taskStore.DeleteByOwner(ctx, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user tasks", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	s.avatarMu.Lock()
	defer s.avatarMu.Unlock()

	if err := s.userStore.Delete(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user after removing tasks",
			"error", err,
			"user_id", user.ID,
			"tasks_removed", removed)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidateAvatar(ctx, user.ID)
	s.logger.InfoContext(ctx, "account deleted", "user_id", user.ID, "tasks_removed", removed)
	return nil
}

// SetAvatar resizes the upload to a square PNG, stores it and writes it
// through to the cache.
func (s *UserServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, upload []byte) error {
	image, err := imaging.ProcessAvatar(upload)
	if err != nil {
		return err
	}

	s.avatarMu.Lock()
	defer s.avatarMu.Unlock()

	if err := s.userStore.SetAvatar(ctx, userID, image); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	if s.avatars != nil {
		if err := s.avatars.Set(ctx, userID, image); err != nil {
			s.logger.WarnContext(ctx, "avatar cache write failed", "error", err, "user_id", userID)
			s.invalidateAvatar(ctx, userID)
		}
	}
	return nil
}

// ClearAvatar removes the stored avatar.
func (s *UserServiceImpl) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	s.avatarMu.Lock()
	defer s.avatarMu.Unlock()

	if err := s.userStore.SetAvatar(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}

	s.invalidateAvatar(ctx, userID)
	return nil
}

// GetAvatar serves from the cache and falls back to the store. Only avatar
// writes fill the cache; a read never does, so a slow read cannot put back
// an image that was cleared or replaced meanwhile.
func (s *UserServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if s.avatars != nil {
		image, hit, err := s.avatars.Get(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "avatar cache read failed", "error", err, "user_id", userID)
		} else if hit {
			return image, nil
		}
	}

	return s.userStore.GetAvatar(ctx, userID)
}

// compareDummy spends the same hashing work as a real password check so an
// unknown email takes as long as a wrong password.
func (s *UserServiceImpl) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.credentials.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("failed to prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.credentials.Compare(s.dummyHash, password)
	}
}

func (s *UserServiceImpl) hashPassword(user *domain.User) error {
	hash, err := s.credentials.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""
	return nil
}

func (s *UserServiceImpl) invalidateAvatar(ctx context.Context, userID uuid.UUID) {
	if s.avatars == nil {
		return
	}
	if err := s.avatars.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "avatar cache invalidation failed", "error", err, "user_id", userID)
	}
}
