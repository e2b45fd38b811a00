package auth

import (
	"context"
	"errors"

	"github.com/supmsg/sup/internal/models"
)

var (
	// ErrIncorrectUsername means no account matched the claimed username.
	ErrIncorrectUsername = errors.New("Incorrect username")
	// ErrIncorrectPassword means the account exists but the password did
	// not verify against its stored hash.
	ErrIncorrectPassword = errors.New("Incorrect password")
)

// CredentialStore resolves a username to a stored account record.
// This allows the authenticator to be independent of the storage
// implementation.
type CredentialStore interface {
	FindAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// BasicAuthenticator verifies per-request username/password pairs against
// the credential store. It is stateless: every call performs a full lookup
// and hash verification, with no session or token caching.
type BasicAuthenticator struct {
	store  CredentialStore
	hasher *PasswordHasher
}

// NewBasicAuthenticator creates an authenticator over the given store and
// hasher.
func NewBasicAuthenticator(store CredentialStore, hasher *PasswordHasher) *BasicAuthenticator {
	return &BasicAuthenticator{
		store:  store,
		hasher: hasher,
	}
}

// Authenticate resolves the account by exact username match and verifies
// the password. An unknown username and a password mismatch both yield an
// authentication failure with the same status downstream; only the error
// text differs, so account existence does not leak through status codes.
func (a *BasicAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := a.store.FindAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrIncorrectUsername
	}

	if !a.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	return account, nil
}
