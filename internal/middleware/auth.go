package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/supmsg/sup/internal/auth"
	"github.com/supmsg/sup/internal/metrics"
	"github.com/supmsg/sup/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// principalKey is the context key for storing the authenticated account.
const principalKey contextKey = "principal"

// Principal extracts the authenticated account from the context.
// Returns nil if the request was not authenticated.
func Principal(ctx context.Context) *models.Account {
	account, _ := ctx.Value(principalKey).(*models.Account)
	return account
}

// RequireBasicAuth returns middleware that authenticates each request from
// its Basic auth credentials and attaches the resulting principal to the
// request context. Authentication is stateless: every request performs a
// full lookup and password verification.
func RequireBasicAuth(authenticator *auth.BasicAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				metrics.AuthFailures.WithLabelValues("missing_credentials").Inc()
				unauthenticated(w, "Authentication required")
				return
			}

			account, err := authenticator.Authenticate(r.Context(), username, password)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrIncorrectUsername):
					metrics.AuthFailures.WithLabelValues("username").Inc()
					unauthenticated(w, err.Error())
				case errors.Is(err, auth.ErrIncorrectPassword):
					metrics.AuthFailures.WithLabelValues("password").Inc()
					unauthenticated(w, err.Error())
				default:
					slog.Error("Authentication lookup failed", "username", username, "error", err)
					internalError(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="sup"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func internalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
}
