package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/supmsg/sup/internal/models"
	"github.com/supmsg/sup/internal/storage"
)

// lookupCounter wraps a Store and records every FindAccountByID call so
// tests can assert which referential checks actually ran.
type lookupCounter struct {
	storage.Store

	mu      sync.Mutex
	lookups map[string]int
}

func (c *lookupCounter) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	c.mu.Lock()
	if c.lookups == nil {
		c.lookups = make(map[string]int)
	}
	c.lookups[id]++
	c.mu.Unlock()
	return c.Store.FindAccountByID(ctx, id)
}

func (c *lookupCounter) count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups[id]
}

func (c *lookupCounter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups = make(map[string]int)
}

func TestCreateMessage(t *testing.T) {
	var counter *lookupCounter
	server, store, hasher := setupTestServer(t, func(s storage.Store) storage.Store {
		counter = &lookupCounter{Store: s}
		return counter
	})

	alice := seedAccount(t, store, hasher, "alice", "12345")
	bob := seedAccount(t, store, hasher, "bob", "12345")

	t.Run("requires authentication", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/messages", "", "",
			map[string]any{"text": "sup", "to": bob.ID, "from": alice.ID})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("missing text", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"to": bob.ID, "from": alice.ID})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Missing field: text" {
			t.Errorf("message: expected Missing field: text, got %q", msg)
		}
	})

	t.Run("non-string to", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "sup", "to": 42, "from": alice.ID})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Incorrect field type: to" {
			t.Errorf("message: expected Incorrect field type: to, got %q", msg)
		}
	})

	t.Run("missing from reports a type error", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "sup", "to": bob.ID})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Incorrect field type: from" {
			t.Errorf("message: expected Incorrect field type: from, got %q", msg)
		}
	})

	t.Run("unknown from id is rejected before any to lookup", func(t *testing.T) {
		counter.reset()

		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "sup", "to": bob.ID, "from": "no-such-id"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Incorrect field value: from" {
			t.Errorf("message: expected Incorrect field value: from, got %q", msg)
		}
		if n := counter.count(bob.ID); n != 0 {
			t.Errorf("to was looked up %d times before from resolved", n)
		}
	})

	t.Run("sending as someone else is rejected before any to lookup", func(t *testing.T) {
		counter.reset()

		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "sup", "to": alice.ID, "from": bob.ID})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Please send from your username" {
			t.Errorf("message: expected Please send from your username, got %q", msg)
		}
		if n := counter.count(alice.ID); n != 0 {
			t.Errorf("to was looked up %d times despite ownership rejection", n)
		}
	})

	t.Run("unknown to id persists nothing", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "sup", "to": "no-such-id", "from": alice.ID})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status: expected 422, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Incorrect field value: to" {
			t.Errorf("message: expected Incorrect field value: to, got %q", msg)
		}

		messages, err := store.ListMessages(context.Background(), storage.MessageFilter{})
		if err != nil {
			t.Fatalf("ListMessages failed: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("expected no persisted messages, got %d", len(messages))
		}
	})

	t.Run("valid message", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/messages", "alice", "12345",
			map[string]any{"text": "  sup bob  ", "to": bob.ID, "from": alice.ID})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status: expected 201, got %d", resp.StatusCode)
		}
		location := resp.Header.Get("Location")
		if location == "" {
			t.Fatal("expected Location header")
		}

		getResp, raw := doJSON(t, http.MethodGet, server.URL+location, "bob", "12345", nil)
		if getResp.StatusCode != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", getResp.StatusCode)
		}

		var fetched map[string]any
		if err := json.Unmarshal(raw, &fetched); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if fetched["text"] != "sup bob" {
			t.Errorf("text: expected trimmed %q, got %v", "sup bob", fetched["text"])
		}

		from, _ := fetched["from"].(map[string]any)
		if from == nil || from["username"] != "alice" {
			t.Errorf("from: expected expanded alice record, got %v", fetched["from"])
		}
		to, _ := fetched["to"].(map[string]any)
		if to == nil || to["username"] != "bob" {
			t.Errorf("to: expected expanded bob record, got %v", fetched["to"])
		}
	})
}

func TestListMessages(t *testing.T) {
	server, store, hasher := setupTestServer(t, nil)
	alice := seedAccount(t, store, hasher, "alice", "12345")
	bob := seedAccount(t, store, hasher, "bob", "12345")

	send := func(from, fromPass, to, text string) {
		t.Helper()
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/messages", from, fromPass, map[string]any{
			"text": text,
			"to":   to,
			"from": map[string]string{"alice": alice.ID, "bob": bob.ID}[from],
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("send failed: %d %s", resp.StatusCode, raw)
		}
	}

	send("alice", "12345", bob.ID, "sup bob")
	send("bob", "12345", alice.ID, "sup alice")

	t.Run("lists all with expanded accounts", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodGet, server.URL+"/messages", "alice", "12345", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", resp.StatusCode)
		}

		var messages []map[string]any
		if err := json.Unmarshal(raw, &messages); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(messages))
		}
		for _, m := range messages {
			from, _ := m["from"].(map[string]any)
			if from == nil || from["username"] == nil {
				t.Errorf("expected expanded from, got %v", m["from"])
			}
		}
	})

	t.Run("filters by from", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodGet, server.URL+"/messages?from="+bob.ID, "alice", "12345", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", resp.StatusCode)
		}

		var messages []map[string]any
		if err := json.Unmarshal(raw, &messages); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messages))
		}
		if messages[0]["text"] != "sup alice" {
			t.Errorf("text: expected sup alice, got %v", messages[0]["text"])
		}
	})

	t.Run("deleted account expands to null", func(t *testing.T) {
		// Bob deletes his account; his messages survive with a null from.
		resp, _ := doJSON(t, http.MethodDelete, server.URL+"/accounts/"+bob.ID, "bob", "12345", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete failed: %d", resp.StatusCode)
		}

		listResp, raw := doJSON(t, http.MethodGet, server.URL+"/messages?from="+bob.ID, "alice", "12345", nil)
		if listResp.StatusCode != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", listResp.StatusCode)
		}

		var messages []map[string]any
		if err := json.Unmarshal(raw, &messages); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(messages) != 1 {
			t.Fatalf("expected bob's message to survive, got %d messages", len(messages))
		}
		if messages[0]["from"] != nil {
			t.Errorf("from: expected null after account deletion, got %v", messages[0]["from"])
		}
	})
}

func TestGetMessage(t *testing.T) {
	server, store, hasher := setupTestServer(t, nil)
	seedAccount(t, store, hasher, "alice", "12345")

	t.Run("requires authentication", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, server.URL+"/messages/some-id", "", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("non-existent id", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodGet, server.URL+"/messages/no-such-id", "alice", "12345", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status: expected 404, got %d", resp.StatusCode)
		}
		if msg := errorMessage(t, raw); msg != "Message not found" {
			t.Errorf("message: expected Message not found, got %q", msg)
		}
	})
}
