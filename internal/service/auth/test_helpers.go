package auth

import (
	"testing"
	"time"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
		BcryptCost:           4,
	}
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// NewTestJWTService creates a JWT service with an injected clock.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return newHMACJWTService(secret, lifetime, timeFunc)
}
