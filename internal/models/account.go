package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered account that can authenticate and
// exchange messages.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	// Normally store-assigned; a client-supplied ID is honored on upsert.
	ID string `json:"id"`

	// Username is the login name. Intended to be unique, but uniqueness is
	// not enforced by any constraint; see the package doc for the
	// consequences.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"-"`
}

// NewAccount creates an account with a fresh ID and creation timestamp.
func NewAccount(username, passwordHash string) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
