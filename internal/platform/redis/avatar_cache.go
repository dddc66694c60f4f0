package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

const avatarKeyPrefix = "avatar:"

// AvatarCache stores processed avatar images in Redis.
type AvatarCache struct {
	client goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.AvatarCache = (*AvatarCache)(nil)

// NewAvatarCache creates an AvatarCache. A non-positive ttl keeps entries
// until they are invalidated.
func NewAvatarCache(client goredis.Cmdable, ttl time.Duration, logger *slog.Logger) *AvatarCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl < 0 {
		ttl = 0
	}

	return &AvatarCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "avatar_cache")),
	}
}

func avatarKey(userID uuid.UUID) string {
	return avatarKeyPrefix + userID.String()
}

// Get returns the cached avatar. A missing key is a miss, not an error.
func (c *AvatarCache) Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	image, err := c.client.Get(ctx, avatarKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read avatar from cache: %w", err)
	}
	return image, true, nil
}

// Set caches image for userID.
func (c *AvatarCache) Set(ctx context.Context, userID uuid.UUID, image []byte) error {
	if err := c.client.Set(ctx, avatarKey(userID), image, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write avatar to cache: %w", err)
	}
	c.logger.DebugContext(ctx, "avatar cached", slog.String("user_id", userID.String()))
	return nil
}

// Invalidate drops any cached avatar for userID.
func (c *AvatarCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, avatarKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached avatar: %w", err)
	}
	return nil
}

// NoopAvatarCache never stores anything; every Get is a miss.
type NoopAvatarCache struct{}

var _ store.AvatarCache = NoopAvatarCache{}

// Get always reports a miss.
func (NoopAvatarCache) Get(context.Context, uuid.UUID) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (NoopAvatarCache) Set(context.Context, uuid.UUID, []byte) error {
	return nil
}

// Invalidate does nothing.
func (NoopAvatarCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
