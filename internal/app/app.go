// Package app exposes the HTTP surface: summarizer CRUD, ledger queries,
// the summarize endpoint, and the webhook intake route.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spectacles/vertex-dashboards/internal/services"
)

// Pinger reports collaborator liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the handlers' dependencies.
type App struct {
	configs services.ConfigStore
	ledger  services.Ledger
	svc     *services.Service
	db      Pinger
}

// New returns an App. db may be nil, in which case the health endpoint
// skips the liveness probe.
func New(configs services.ConfigStore, ledger services.Ledger, svc *services.Service, db Pinger) *App {
	return &App{configs: configs, ledger: ledger, svc: svc, db: db}
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
