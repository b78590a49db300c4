package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
)

// DefaultCost is the bcrypt work factor used when none (or an invalid one) is configured.
const DefaultCost = bcrypt.DefaultCost

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost, falling back to
// DefaultCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Hash salts and hashes plaintext. Empty input and input longer than 72 bytes
// are rejected with domain.ErrInvalidInput.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &domain.Error{Kind: domain.KindValidation, Message: "password must not exceed 72 bytes", Err: err}
		}
		return "", domain.NewUnknownError("hash password", err)
	}
	return string(hash), nil
}

// Verify compares in constant time using the salt embedded in hashed.
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
