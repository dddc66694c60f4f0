package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/imaging"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type userFixture struct {
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	cache  *mocks.MockAvatarCache
	svc    *service.UserServiceImpl
	tokens *auth.TokenService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	cache := mocks.NewMockAvatarCache()
	tokens := auth.NewTokenService(auth.RequireTestJWTService(t), users, quietLogger)
	svc := service.NewUserService(users, tasks, tokens, &mocks.MockPasswordVerifier{}, cache, quietLogger)

	return &userFixture{users: users, tasks: tasks, cache: cache, svc: svc, tokens: tokens}
}

func (f *userFixture) register(t *testing.T, email string) (*domain.User, string) {
	t.Helper()
	user, token, err := f.svc.Register(context.Background(), service.RegisterInput{
		Name:     "Andrew",
		Email:    email,
		Password: "red12345!",
		Age:      27,
	})
	require.NoError(t, err)
	return user, token
}

func TestUserServiceRegister(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, token := f.register(t, " Andrew@Example.com ")
	assert.Equal(t, "andrew@example.com", user.Email)
	assert.Equal(t, "hashed:red12345!", user.HashedPassword)
	assert.Empty(t, user.Password, "plaintext must not survive registration")
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, f.users.TokenCount(user.ID))

	_, _, err := f.svc.Register(ctx, service.RegisterInput{
		Name: "Other", Email: "andrew@example.com", Password: "red12345!",
	})
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, _, err = f.svc.Register(ctx, service.RegisterInput{
		Name: "Weak", Email: "weak@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordContainsPwd)
	assert.Len(t, f.users.Users, 1, "invalid registrations must not be stored")
}

func TestUserServiceLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	registered, _ := f.register(t, "andrew@example.com")

	user, token, err := f.svc.Login(ctx, "ANDREW@example.com", "red12345!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, 2, f.users.TokenCount(user.ID))

	_, _, errWrongPassword := f.svc.Login(ctx, "andrew@example.com", "nope-nope")
	_, _, errUnknownEmail := f.svc.Login(ctx, "nobody@example.com", "red12345!")
	assert.ErrorIs(t, errWrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail, "login failures must be indistinguishable")
}

func TestUserServiceLoginUnknownEmailStillCompares(t *testing.T) {
	users := mocks.NewMockUserStore()
	var compared []string
	credentials := &mocks.MockPasswordVerifier{
		CompareFn: func(hashedPassword, password string) error {
			compared = append(compared, password)
			if hashedPassword != "hashed:"+password {
				return errors.New("password does not match")
			}
			return nil
		},
	}
	tokens := auth.NewTokenService(auth.RequireTestJWTService(t), users, quietLogger)
	svc := service.NewUserService(users, mocks.NewMockTaskStore(), tokens, credentials, nil, quietLogger)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "red12345!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "no-such-account-placeholder")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "the placeholder password never logs in")

	assert.Equal(t, []string{"red12345!", "no-such-account-placeholder"}, compared)
}

func TestUserServiceLogout(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, first := f.register(t, "andrew@example.com")
	_, second, err := f.svc.Login(ctx, "andrew@example.com", "red12345!")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, user.ID, first))
	_, err = f.users.GetByIDAndToken(ctx, user.ID, first)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = f.users.GetByIDAndToken(ctx, user.ID, second)
	assert.NoError(t, err)

	require.NoError(t, f.svc.LogoutAll(ctx, user.ID))
	assert.Zero(t, f.users.TokenCount(user.ID))
}

func TestUserServiceUpdateProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")
	f.register(t, "taken@example.com")

	name, pwd := "Drew", "brandnew1"
	updated, err := f.svc.UpdateProfile(ctx, user, domain.UserUpdate{Name: &name, Password: &pwd})
	require.NoError(t, err)
	assert.Equal(t, "Drew", updated.Name)
	assert.Equal(t, "hashed:brandnew1", updated.HashedPassword)
	assert.Empty(t, updated.Password)
	assert.Equal(t, "Andrew", user.Name, "caller's copy is not mutated")

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drew", stored.Name)

	badAge := -5
	other := "Ignored"
	_, err = f.svc.UpdateProfile(ctx, stored, domain.UserUpdate{Name: &other, Age: &badAge})
	assert.ErrorIs(t, err, domain.ErrNegativeAge)
	stored, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drew", stored.Name, "failed update writes nothing")

	taken := "taken@example.com"
	_, err = f.svc.UpdateProfile(ctx, stored, domain.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserServiceDeleteAccountOrder(t *testing.T) {
	userStore := new(mocks.TestifyMockUserStore)
	taskStore := new(mocks.TestifyMockTaskStore)
	svc := service.NewUserService(userStore, taskStore, nil, &mocks.MockPasswordVerifier{}, nil, quietLogger)

	user := &domain.User{ID: uuid.New()}
	var calls []string
	taskStore.On("DeleteByOwner", mock.Anything, user.ID).
		Run(func(mock.Arguments) { calls = append(calls, "tasks") }).
		Return(int64(3), nil)
	userStore.On("Delete", mock.Anything, user.ID).
		Run(func(mock.Arguments) { calls = append(calls, "user") }).
		Return(nil)

	require.NoError(t, svc.DeleteAccount(context.Background(), user))
	assert.Equal(t, []string{"tasks", "user"}, calls)
	taskStore.AssertExpectations(t)
	userStore.AssertExpectations(t)
}

func TestUserServiceDeleteAccountPartialFailure(t *testing.T) {
	userStore := new(mocks.TestifyMockUserStore)
	taskStore := new(mocks.TestifyMockTaskStore)
	svc := service.NewUserService(userStore, taskStore, nil, &mocks.MockPasswordVerifier{}, nil, quietLogger)
	user := &domain.User{ID: uuid.New()}

	t.Run("task delete fails", func(t *testing.T) {
		taskStore.On("DeleteByOwner", mock.Anything, user.ID).
			Return(int64(0), errors.New("connection reset")).Once()

		err := svc.DeleteAccount(context.Background(), user)
		assert.ErrorContains(t, err, "failed to delete tasks")
		userStore.AssertNotCalled(t, "Delete", mock.Anything, user.ID)
	})

	t.Run("user delete fails after tasks are gone", func(t *testing.T) {
		taskStore.On("DeleteByOwner", mock.Anything, user.ID).Return(int64(2), nil).Once()
		userStore.On("Delete", mock.Anything, user.ID).Return(errors.New("connection reset")).Once()

		err := svc.DeleteAccount(context.Background(), user)
		assert.ErrorContains(t, err, "failed to delete user")
	})
}

func TestUserServiceDeleteAccountRemovesTasks(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")
	other, _ := f.register(t, "other@example.com")

	for _, owner := range []uuid.UUID{user.ID, user.ID, other.ID} {
		task, err := domain.NewTask(owner, "chore", false)
		require.NoError(t, err)
		require.NoError(t, f.tasks.Create(ctx, task))
	}

	require.NoError(t, f.svc.DeleteAccount(ctx, user))
	assert.Zero(t, f.tasks.CountForOwner(user.ID))
	assert.Equal(t, 1, f.tasks.CountForOwner(other.ID))
	_, err := f.users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.Contains(t, f.cache.Invalidated, user.ID)
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 20))))
	return buf.Bytes()
}

func TestUserServiceAvatar(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")

	_, err := f.svc.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)

	require.NoError(t, f.svc.SetAvatar(ctx, user.ID, pngUpload(t)))
	assert.Equal(t, f.users.Avatars[user.ID], f.cache.Entries[user.ID], "upload writes through to the cache")

	avatar, err := f.svc.GetAvatar(ctx, user.ID)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(avatar))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, imaging.AvatarSize, cfg.Width)
	assert.Equal(t, imaging.AvatarSize, cfg.Height)

	require.NoError(t, f.svc.ClearAvatar(ctx, user.ID))
	assert.NotContains(t, f.cache.Entries, user.ID)
	_, err = f.svc.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)

	require.NoError(t, f.svc.ClearAvatar(ctx, user.ID), "clearing twice succeeds")

	err = f.svc.SetAvatar(ctx, user.ID, []byte("not an image"))
	assert.ErrorIs(t, err, imaging.ErrUndecodable)
}

func TestUserServiceAvatarCacheFailureFallsBack(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")
	f.users.Avatars[user.ID] = []byte("stored")

	f.cache.GetFn = func(context.Context, uuid.UUID) ([]byte, bool, error) {
		return nil, false, errors.New("redis down")
	}

	avatar, err := f.svc.GetAvatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), avatar)
}

func TestUserServiceAvatarReadDoesNotFillCache(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")
	f.users.Avatars[user.ID] = []byte("stored")

	avatar, err := f.svc.GetAvatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), avatar)
	assert.NotContains(t, f.cache.Entries, user.ID)
}

func TestUserServiceAvatarClearDuringSlowRead(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")

	reading := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f.users.GetAvatarFn = func(context.Context, uuid.UUID) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(reading)
			<-release
			return []byte("old-png"), nil
		}
		return nil, store.ErrAvatarNotFound
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		avatar, err := f.svc.GetAvatar(ctx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, []byte("old-png"), avatar)
	}()

	<-reading
	require.NoError(t, f.svc.ClearAvatar(ctx, user.ID))
	close(release)
	<-done

	assert.NotContains(t, f.cache.Entries, user.ID)
	_, err := f.svc.GetAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound, "cleared avatar must not be served")
}

func TestUserServiceAvatarCacheWriteFailureInvalidates(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user, _ := f.register(t, "andrew@example.com")
	f.cache.Entries[user.ID] = []byte("previous")

	f.cache.SetFn = func(context.Context, uuid.UUID, []byte) error {
		return errors.New("redis down")
	}

	require.NoError(t, f.svc.SetAvatar(ctx, user.ID, pngUpload(t)))
	assert.NotContains(t, f.cache.Entries, user.ID)
	assert.Contains(t, f.cache.Invalidated, user.ID)
}
