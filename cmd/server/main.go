package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/supmsg/sup/internal/auth"
	"github.com/supmsg/sup/internal/config"
	"github.com/supmsg/sup/internal/handlers"
	"github.com/supmsg/sup/internal/storage/sqlite"
	"github.com/supmsg/sup/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authenticator := auth.NewBasicAuthenticator(store, hasher)
	handler := handlers.NewHandler(store, hasher)
	router := handlers.NewRouter(handler, authenticator)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
