package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/michi-labs/catapi/internal/core/domain"
)

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).Cost())
	assert.Equal(t, 10, DefaultCost)
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, h.Verify("secret", hash))
	assert.False(t, h.Verify("Secret", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret", first))
	assert.True(t, h.Verify("secret", second))
}

func TestBcryptHasher_InvalidInput(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = h.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("secret", ""))
	assert.False(t, h.Verify("secret", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("secret", "secret"))
}
