package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

// PasswordHasher turns plaintext passwords into salted one-way hashes and
// checks candidates against them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher is a PasswordHasher backed by bcrypt. Each Hash call uses a
// fresh random salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is zero.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt encoding of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A malformed hash never
// matches, and neither does a plaintext longer than MaxPasswordBytes, since
// bcrypt would only compare its first 72 bytes.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if len(plaintext) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
