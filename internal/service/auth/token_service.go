package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// TokenSet is the slice of the user store that tracks active session tokens.
type TokenSet interface {
	AddToken(ctx context.Context, userID uuid.UUID, token string) error
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllTokens(ctx context.Context, userID uuid.UUID) error
}

// TokenService issues and revokes session tokens. A token is usable only
// while it verifies cryptographically and is still in its owner's set.
type TokenService struct {
	jwt    JWTService
	tokens TokenSet
	logger *slog.Logger
}

// NewTokenService creates a TokenService.
func NewTokenService(jwtService JWTService, tokens TokenSet, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		jwt:    jwtService,
		tokens: tokens,
		logger: logger.With("component", "token_service"),
	}
}

// Issue signs a new token for userID and appends it to the user's set.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.jwt.GenerateToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokens.AddToken(ctx, userID, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to store issued token",
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Verify checks the token's signature and expiry and returns the embedded
// user id. Membership in the user's set is not checked here.
func (s *TokenService) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrMissingToken
	}
	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// Revoke removes a single token from the user's set.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.tokens.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RevokeAll empties the user's token set.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RemoveAllTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}
