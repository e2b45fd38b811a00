package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a directed message between two accounts. Messages are
// immutable after creation.
//
// From and To hold account IDs, never pointers to Account values: an
// account can be deleted independently of messages that reference it, so
// the expansion into full account records happens at read time (see
// ExpandedMessage).
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string `json:"id"`

	// From is the ID of the sending account. Always equals the ID of the
	// principal that created the message.
	From string `json:"from"`

	// To is the ID of the receiving account. Resolved to an existing
	// account at creation time only; there is no cascade on delete.
	To string `json:"to"`

	// Text is the message body, trimmed and non-empty.
	Text string `json:"text"`

	// CreatedAt is the Unix timestamp when the message was created.
	CreatedAt int64 `json:"-"`
}

// NewMessage creates a message with a fresh ID and creation timestamp.
func NewMessage(from, to, text string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Text:      text,
		CreatedAt: time.Now().Unix(),
	}
}

// ExpandedMessage is the read-side projection of a message with From and
// To expanded to full account records. A referenced account that no
// longer exists expands to null.
type ExpandedMessage struct {
	ID   string   `json:"id"`
	From *Account `json:"from"`
	To   *Account `json:"to"`
	Text string   `json:"text"`
}

// Expand builds the read projection for m using the given account set,
// typically the result of a batch lookup keyed by account ID.
func (m *Message) Expand(accounts map[string]*Account) ExpandedMessage {
	return ExpandedMessage{
		ID:   m.ID,
		From: accounts[m.From],
		To:   accounts[m.To],
		Text: m.Text,
	}
}
