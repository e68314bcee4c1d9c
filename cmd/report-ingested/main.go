package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/spectacles/vertex-dashboards/internal/config"
	"github.com/spectacles/vertex-dashboards/internal/gcp"
	"github.com/spectacles/vertex-dashboards/internal/mailer"
	"github.com/spectacles/vertex-dashboards/internal/services"
)

var (
	serviceInstance *services.Service
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function. The framework routes GCS
	// object-finalize events here.
	functions.CloudEvent("ReportIngested", reportIngested)
}

// main is required by the Go Functions Framework.
func main() {}

// reportIngested handles a finalize event on the reports bucket: PDFs
// dropped directly into summaries/{id}/{timestamp}.pdf get a receipt and
// a summarization run without a webhook delivery.
func reportIngested(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		serviceInstance, initErr = newService(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return serviceInstance.IngestObject(ctx, gcsEvent)
}

func newService(ctx context.Context) (*services.Service, error) {
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

	return services.New(
		gcp.NewConfigStore(firestoreClient),
		gcp.NewLedger(firestoreClient),
		gcp.NewReportStore(storageClient, cfg.ReportsBucket),
		vertexClient,
		mailer.New(cfg.ResendAPIKey, cfg.EmailFrom),
	), nil
}
