package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supmsg/sup/internal/metrics"
	"github.com/supmsg/sup/internal/middleware"
	"github.com/supmsg/sup/internal/models"
	"github.com/supmsg/sup/internal/validate"
)

// createAccountSchema validates new-account payloads: both fields walk the
// full presence → string → trim → non-empty chain.
var createAccountSchema = validate.Schema{
	validate.Required("username"),
	validate.Required("password"),
}

// updateAccountSchema validates password updates. An absent password is
// reported as a type error, matching the established wire contract.
var updateAccountSchema = validate.Schema{
	validate.TypeChecked("password"),
}

// CreateAccount handles POST /accounts. Open endpoint: no authentication.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBody(r)
	if !ok {
		h.Error(w, http.StatusBadRequest, "No request body")
		return
	}

	values, verr := createAccountSchema.Apply(payload)
	if verr != nil {
		h.Error(w, http.StatusUnprocessableEntity, verr.Message)
		return
	}

	hash, err := h.hasher.Hash(values["password"])
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	account := models.NewAccount(values["username"], hash)
	if err := h.store.CreateAccount(r.Context(), account); err != nil {
		slog.Error("CreateAccount failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("Account created", "account_id", account.ID, "username", account.Username)
	metrics.AccountsCreated.Inc()

	w.Header().Set("Location", "/accounts/"+account.ID)
	h.JSON(w, http.StatusCreated, map[string]string{})
}

// ListAccounts handles GET /accounts. Password hashes never serialize.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		slog.Error("ListAccounts failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.JSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /accounts/{id}. Only the owner may fetch a single
// record; existence is checked first so a missing id stays a 404.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.store.FindAccountByID(r.Context(), id)
	if err != nil {
		slog.Error("GetAccount failed", "account_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if account == nil {
		h.Error(w, http.StatusNotFound, "User not found")
		return
	}

	principal := middleware.Principal(r.Context())
	if account.ID != principal.ID {
		h.Error(w, http.StatusUnprocessableEntity, "Please send from your username")
		return
	}

	h.JSON(w, http.StatusOK, account)
}

// UpdateAccount handles PUT /accounts/{id}: upserts the account's password
// keyed by the path id. Repeating the same request converges to the same
// stored state.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, ok := decodeBody(r)
	if !ok {
		h.Error(w, http.StatusBadRequest, "No request body")
		return
	}

	values, verr := updateAccountSchema.Apply(payload)
	if verr != nil {
		h.Error(w, http.StatusUnprocessableEntity, verr.Message)
		return
	}

	principal := middleware.Principal(r.Context())
	if id != principal.ID {
		h.Error(w, http.StatusUnauthorized, "You must edit your own profile")
		return
	}

	hash, err := h.hasher.Hash(values["password"])
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// The principal carries the current stored fields; the upsert inserts
	// them back if the record vanished between authentication and now.
	account := *principal
	account.PasswordHash = hash
	if err := h.store.UpsertAccount(r.Context(), &account); err != nil {
		slog.Error("UpdateAccount failed", "account_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("Account password updated", "account_id", id)
	h.JSON(w, http.StatusOK, map[string]string{})
}

// DeleteAccount handles DELETE /accounts/{id}. Owner only.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.store.FindAccountByID(r.Context(), id)
	if err != nil {
		slog.Error("DeleteAccount lookup failed", "account_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if account == nil {
		h.Error(w, http.StatusNotFound, "User not found")
		return
	}

	principal := middleware.Principal(r.Context())
	if account.ID != principal.ID {
		h.Error(w, http.StatusUnauthorized, "You cannot delete other users")
		return
	}

	deleted, err := h.store.DeleteAccount(r.Context(), id)
	if err != nil {
		slog.Error("DeleteAccount failed", "account_id", id, "error", err)
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		// Deleted concurrently between the lookup and here.
		h.Error(w, http.StatusNotFound, "User not found")
		return
	}

	slog.Info("Account deleted", "account_id", id)
	h.JSON(w, http.StatusOK, map[string]string{})
}
