package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supmsg/sup/internal/metrics"
	"github.com/supmsg/sup/internal/middleware"
	"github.com/supmsg/sup/internal/models"
	"github.com/supmsg/sup/internal/storage"
	"github.com/supmsg/sup/internal/validate"
)

// createMessageSchema validates new-message payloads. The to and from
// fields are type-checked only: an absent id reads as an incorrect type,
// matching the established wire contract.
var createMessageSchema = validate.Schema{
	validate.Required("text"),
	validate.TypeChecked("to"),
	validate.TypeChecked("from"),
}

// CreateMessage handles POST /messages.
//
// The referential checks run strictly in sequence: from is resolved first
// because it must also equal the principal, so an unauthorized request is
// rejected before the unrelated to id is ever looked up.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBody(r)
	if !ok {
		h.Error(w, http.StatusBadRequest, "No request body")
		return
	}

	values, verr := createMessageSchema.Apply(payload)
	if verr != nil {
		h.Error(w, http.StatusUnprocessableEntity, verr.Message)
		return
	}

	from := values["from"]
	to := values["to"]

	sender, err := h.store.FindAccountByID(r.Context(), from)
	if err != nil {
		slog.Error("CreateMessage sender lookup failed", "from", from, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if sender == nil {
		h.Error(w, http.StatusUnprocessableEntity, "Incorrect field value: from")
		return
	}

	principal := middleware.Principal(r.Context())
	if sender.ID != principal.ID {
		h.Error(w, http.StatusUnprocessableEntity, "Please send from your username")
		return
	}

	recipient, err := h.store.FindAccountByID(r.Context(), to)
	if err != nil {
		slog.Error("CreateMessage recipient lookup failed", "to", to, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if recipient == nil {
		h.Error(w, http.StatusUnprocessableEntity, "Incorrect field value: to")
		return
	}

	message := models.NewMessage(sender.ID, recipient.ID, values["text"])
	if err := h.store.CreateMessage(r.Context(), message); err != nil {
		slog.Error("CreateMessage failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("Message created", "message_id", message.ID, "from", message.From, "to", message.To)
	metrics.MessagesSent.Inc()

	w.Header().Set("Location", "/messages/"+message.ID)
	h.JSON(w, http.StatusCreated, map[string]string{})
}

// ListMessages handles GET /messages. Results can be narrowed with the
// optional from and to query parameters; from/to expand to full account
// records in one batch lookup.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	filter := storage.MessageFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	messages, err := h.store.ListMessages(r.Context(), filter)
	if err != nil {
		slog.Error("ListMessages failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	expanded, err := h.expandMessages(r.Context(), messages)
	if err != nil {
		slog.Error("ListMessages expansion failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.JSON(w, http.StatusOK, expanded)
}

// GetMessage handles GET /messages/{id}.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	message, err := h.store.FindMessageByID(r.Context(), id)
	if err != nil {
		slog.Error("GetMessage failed", "message_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if message == nil {
		h.Error(w, http.StatusNotFound, "Message not found")
		return
	}

	expanded, err := h.expandMessages(r.Context(), []*models.Message{message})
	if err != nil {
		slog.Error("GetMessage expansion failed", "message_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.JSON(w, http.StatusOK, expanded[0])
}

// expandMessages resolves the from/to account ids of all messages in one
// batch lookup. Accounts deleted since a message was created expand to
// null rather than failing the read.
func (h *Handler) expandMessages(ctx context.Context, messages []*models.Message) ([]models.ExpandedMessage, error) {
	idSet := make(map[string]struct{})
	for _, m := range messages {
		idSet[m.From] = struct{}{}
		idSet[m.To] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	accounts, err := h.store.AccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	expanded := make([]models.ExpandedMessage, len(messages))
	for i, m := range messages {
		expanded[i] = m.Expand(accounts)
	}
	return expanded, nil
}
