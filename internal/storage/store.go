// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/supmsg/sup/internal/models"
)

// MessageFilter narrows ListMessages results. Zero-value fields are
// ignored.
type MessageFilter struct {
	From string
	To   string
}

// Store defines the interface for account and message storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the handler layer.
//
// Find methods return (nil, nil) when no record matches; a non-nil error
// always means the store itself failed.
type Store interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, account *models.Account) error

	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)

	// FindAccountByUsername retrieves an account by exact username match.
	// Usernames are not unique; when several accounts share one, the
	// oldest record wins so repeated lookups stay stable.
	FindAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	// ListAccounts retrieves all accounts ordered by creation time.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// UpsertAccount inserts the account if no record with its ID exists,
	// otherwise replaces the existing record's username and password hash.
	// Issuing the same upsert twice converges to identical stored state.
	UpsertAccount(ctx context.Context, account *models.Account) error

	// DeleteAccount removes an account by ID. Returns deleted=false when
	// no record matched.
	DeleteAccount(ctx context.Context, id string) (bool, error)

	// CreateMessage persists a new message.
	CreateMessage(ctx context.Context, message *models.Message) error

	// FindMessageByID retrieves a message by its ID.
	FindMessageByID(ctx context.Context, id string) (*models.Message, error)

	// ListMessages retrieves messages matching the filter, ordered by
	// creation time.
	ListMessages(ctx context.Context, filter MessageFilter) ([]*models.Message, error)

	// AccountsByIDs retrieves multiple accounts keyed by ID. Accounts that
	// do not exist are omitted from the result.
	AccountsByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error)

	// Close releases any resources held by the store.
	Close() error
}
