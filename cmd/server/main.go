package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/spectacles/vertex-dashboards/internal/app"
	"github.com/spectacles/vertex-dashboards/internal/config"
	"github.com/spectacles/vertex-dashboards/internal/gcp"
	"github.com/spectacles/vertex-dashboards/internal/mailer"
	"github.com/spectacles/vertex-dashboards/internal/services"
)

var (
	apiHandler http.Handler
	once       sync.Once
	initErr    error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// FUNCTION_TARGET=VertexDashboards selects this handler when running
	// outside the GCP buildpacks.
	functions.HTTP("VertexDashboards", handleAPI)
}

func main() {
	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// handleAPI serves the whole HTTP surface as a single function target.
func handleAPI(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		apiHandler, initErr = newHandler(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: service initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	apiHandler.ServeHTTP(w, r)
}

// newHandler constructs every collaborator client and wires the service.
func newHandler(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID, cfg.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	vertexClient, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, cfg.VertexModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	configs := gcp.NewConfigStore(firestoreClient)
	ledger := gcp.NewLedger(firestoreClient)
	reports := gcp.NewReportStore(storageClient, cfg.ReportsBucket)
	mail := mailer.New(cfg.ResendAPIKey, cfg.EmailFrom)

	svc := services.New(configs, ledger, reports, vertexClient, mail)
	slog.Info("Service initialized.", "bucket", cfg.ReportsBucket, "model", cfg.VertexModel)
	return app.New(configs, ledger, svc, configs).Routes(), nil
}
