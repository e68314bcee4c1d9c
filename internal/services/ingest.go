package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spectacles/vertex-dashboards/internal/models"
)

// GCSEvent is the payload of a storage object-finalize CloudEvent.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// IngestObject handles a report PDF that landed in the bucket without a
// webhook delivery (backfills, manual drops). Objects whose names do not
// match the summaries/{id}/{timestamp}.pdf layout are skipped, as are
// objects for summarizers that were never configured.
func (s *Service) IngestObject(ctx context.Context, e GCSEvent) error {
	summarizerID, ts, ok := parseReportObject(e.Name)
	if !ok {
		slog.Info("Object is not a report, skipping.", "object", e.Name)
		return nil
	}
	log := slog.With("summarizerId", summarizerID, "reportLocation", e.Name, "executionId", uuid.NewString())

	cfg, err := s.configs.Get(ctx, summarizerID)
	if errors.Is(err, ErrNotFound) {
		log.Info("No summarizer configured for this id, skipping object.")
		return nil
	}
	if err != nil {
		log.Error("Failed to load summarizer", "error", err)
		return fmt.Errorf("failed to load summarizer %s: %w", summarizerID, err)
	}

	// Objects written by the webhook path already carry a receipt under
	// this key; their finalize events must not trigger a second run.
	key := models.LedgerKey(summarizerID, ts)
	seen, err := s.ledger.HasReceipt(ctx, key)
	if err != nil {
		log.Error("Failed to check for an existing receipt", "error", err)
		return fmt.Errorf("failed to check for an existing receipt: %w", err)
	}
	if seen {
		log.Info("Receipt already recorded for this object, skipping.")
		return nil
	}

	data, err := s.reports.Read(ctx, e.Name)
	if err != nil {
		log.Error("Failed to read report object", "error", err)
		return fmt.Errorf("failed to read report object: %w", err)
	}
	pageCount, err := s.countPages(data)
	if err != nil {
		log.Warn("Object does not parse as a PDF, skipping.", "error", err)
		return nil
	}

	receipt := models.Receipt{
		Timestamp:      ts,
		ReportLocation: e.Name,
		SummarizerID:   summarizerID,
		PageCount:      pageCount,
	}
	if err := s.ledger.AppendReceipt(ctx, key, receipt); err != nil {
		log.Error("Failed to record receipt", "error", err)
		return fmt.Errorf("failed to record receipt: %w", err)
	}

	summary, err := s.Summarize(ctx, models.SummaryRequest{Summarizer: *cfg, Receipt: receipt})
	if err != nil {
		return err
	}

	if err := s.mail.Dispatch(ctx, *summary, *cfg, data, ""); err != nil {
		log.Error("Failed to dispatch summary email", "error", err)
		return fmt.Errorf("failed to dispatch summary email: %w", err)
	}

	log.Info("Ingested object processed.")
	return nil
}

// parseReportObject extracts the summarizer id and receipt timestamp from
// an object name shaped summaries/{id}/{YYYYMMDDHHMMSS}.pdf.
func parseReportObject(name string) (summarizerID string, ts time.Time, ok bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 3 || parts[0] != "summaries" || parts[1] == "" {
		return "", time.Time{}, false
	}
	stamp, found := strings.CutSuffix(parts[2], ".pdf")
	if !found {
		return "", time.Time{}, false
	}
	t, err := time.ParseInLocation(models.TimestampLayout, stamp, time.UTC)
	if err != nil {
		return "", time.Time{}, false
	}
	return parts[1], t, true
}
