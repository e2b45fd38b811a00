package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashing indicates that deriving a password hash failed. Callers treat
// this as fatal for the request; it is never silently defaulted.
var ErrHashing = errors.New("failed to hash password")

// PasswordHasher performs one-way salted hashing and verification of
// passwords using bcrypt. A fresh random salt is generated per Hash call
// and embedded in the resulting record, so verification needs no separate
// salt storage.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to bcrypt.DefaultCost (10).
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted hash record from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash record.
func (h *PasswordHasher) Verify(plaintext, hashRecord string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashRecord), []byte(plaintext)) == nil
}
