package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := v.Hash("red12345!")
	require.NoError(t, err)
	assert.NotEqual(t, "red12345!", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, v.Compare(hash, "red12345!"))
	assert.ErrorIs(t, v.Compare(hash, "wrong-password"), ErrPasswordMismatch)
	assert.Error(t, v.Compare("not-a-hash", "red12345!"))
}

func TestNewBcryptVerifierCostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(99).cost)
	assert.Equal(t, 12, NewBcryptVerifier(12).cost)
}
