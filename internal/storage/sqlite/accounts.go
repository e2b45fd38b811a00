package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/supmsg/sup/internal/models"
)

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindAccountByID retrieves an account by its ID.
func (s *SQLiteStore) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		WHERE id = ?
	`

	account := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return account, nil
}

// FindAccountByUsername retrieves an account by exact username match.
// Usernames carry no uniqueness constraint; the oldest matching record
// wins so repeated lookups resolve the same account.
func (s *SQLiteStore) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		WHERE username = ?
		ORDER BY created_at, id
		LIMIT 1
	`

	account := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username: %w", err)
	}

	return account, nil
}

// ListAccounts retrieves all accounts ordered by creation time.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.PasswordHash,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpsertAccount inserts the account if no record with its ID exists,
// otherwise replaces the stored username and password hash. CreatedAt is
// only written on insert, so repeating the same upsert converges to
// identical stored state.
func (s *SQLiteStore) UpsertAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO accounts (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			password_hash = excluded.password_hash
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}

// DeleteAccount removes an account by ID. Returns false when no record
// matched.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// AccountsByIDs retrieves multiple accounts by their IDs.
// Returns a map of account ID to Account. Accounts that don't exist are
// omitted from the result.
func (s *SQLiteStore) AccountsByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	if len(ids) == 0 {
		return make(map[string]*models.Account), nil
	}

	// Build the IN clause with placeholders
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		WHERE id IN (?` + repeatPlaceholder(len(ids)-1) + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]*models.Account)
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.PasswordHash,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[account.ID] = account
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
