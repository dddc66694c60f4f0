package store

import (
	"context"

	"github.com/google/uuid"
)

// AvatarCache holds the current avatar of users in front of
// UserStore.GetAvatar. It is filled by avatar writes only.
// A miss is reported as (nil, false, nil); implementations must treat
// backend failures as errors, never as hits.
type AvatarCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error)
	Set(ctx context.Context, userID uuid.UUID, image []byte) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
