// Package handlers implements the HTTP surface of sup.
//
// Every mutating request walks the same fail-fast chain: authentication
// (middleware) → validation → authorization → referential checks (messages
// only) → persistence. The first failing stage writes the terminal error
// response and nothing after it runs.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/supmsg/sup/internal/auth"
	"github.com/supmsg/sup/internal/middleware"
	"github.com/supmsg/sup/internal/storage"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store  storage.Store
	hasher *auth.PasswordHasher
}

// NewHandler creates a new Handler with the given store and hasher.
func NewHandler(store storage.Store, hasher *auth.PasswordHasher) *Handler {
	return &Handler{store: store, hasher: hasher}
}

// NewRouter creates and configures the HTTP router.
func NewRouter(h *Handler, authenticator *auth.BasicAuthenticator) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	// Account creation is the only open resource endpoint.
	r.Post("/accounts", h.CreateAccount)

	// Everything else requires Basic auth.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireBasicAuth(authenticator))

		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Put("/accounts/{id}", h.UpdateAccount)
		r.Delete("/accounts/{id}", h.DeleteAccount)

		r.Get("/messages", h.ListMessages)
		r.Post("/messages", h.CreateMessage)
		r.Get("/messages/{id}", h.GetMessage)
	})

	return r
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"message": message})
}

// decodeBody parses the request body as a JSON object. The payload is kept
// as raw decoded JSON so validation can inspect the actual wire types.
// An empty body reads as an empty object and falls through to validation,
// which then reports the first missing field.
func decodeBody(r *http.Request) (map[string]any, bool) {
	var payload map[string]any
	err := json.NewDecoder(r.Body).Decode(&payload)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, true
	}
	if err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
