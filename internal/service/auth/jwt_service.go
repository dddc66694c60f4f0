package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService signs and verifies session tokens. It knows nothing about which
// tokens are still active; that is TokenService's job.
type JWTService interface {
	// GenerateToken creates a signed token bound to userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature, format and expiry and returns the claims.
	// Fails with ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a session token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
