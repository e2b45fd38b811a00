package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/supmsg/sup/internal/models"
	"github.com/supmsg/sup/internal/storage"
)

// CreateMessage inserts a new message into the database.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, from_id, to_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		message.ID,
		message.From,
		message.To,
		message.Text,
		message.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// FindMessageByID retrieves a message by its ID.
func (s *SQLiteStore) FindMessageByID(ctx context.Context, id string) (*models.Message, error) {
	query := `
		SELECT id, from_id, to_id, text, created_at
		FROM messages
		WHERE id = ?
	`

	message := &models.Message{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID,
		&message.From,
		&message.To,
		&message.Text,
		&message.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Message not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}

	return message, nil
}

// ListMessages retrieves messages matching the filter, ordered by creation
// time. Zero-value filter fields are ignored.
func (s *SQLiteStore) ListMessages(ctx context.Context, filter storage.MessageFilter) ([]*models.Message, error) {
	query := `
		SELECT id, from_id, to_id, text, created_at
		FROM messages
	`

	var conditions []string
	var args []interface{}
	if filter.From != "" {
		conditions = append(conditions, "from_id = ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "to_id = ?")
		args = append(args, filter.To)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message := &models.Message{}
		if err := rows.Scan(
			&message.ID,
			&message.From,
			&message.To,
			&message.Text,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
