package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

// Summarize runs one summarization attempt for a stored report. The flow
// is linear and single-attempt: resolve the prior summary, build the
// prompt, invoke the model, persist the Summary. A model failure aborts
// the whole attempt with nothing written.
//
// The Summary document is keyed by the Receipt's timestamp, so re-running
// for the same receipt overwrites the same document.
func (s *Service) Summarize(ctx context.Context, req models.SummaryRequest) (*models.Summary, error) {
	cfg := req.Summarizer
	receipt := req.Receipt
	log := slog.With("summarizerId", cfg.ID, "reportLocation", receipt.ReportLocation)

	var prior *models.Summary
	if cfg.UsePriorReports {
		p, err := s.ledger.LatestSummary(ctx, cfg.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			// No prior summary yet: fall back to first-run behavior.
			log.Info("No prior summary found, summarizing as first run.")
		case err != nil:
			return nil, fmt.Errorf("failed to resolve prior summary: %w", err)
		default:
			prior = p
		}
	}

	prompt := BuildPrompt(cfg, prior)

	uris := []string{s.reports.URI(receipt.ReportLocation)}
	var priorLocation string
	if prior != nil {
		priorLocation = prior.ReportLocation
		uris = append(uris, s.reports.URI(prior.ReportLocation))
	}

	body, err := s.model.Generate(ctx, prompt, uris...)
	if err != nil {
		log.Error("Model invocation failed", "error", err)
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summary := models.Summary{
		Body:                body,
		Prompt:              prompt,
		ReportLocation:      receipt.ReportLocation,
		PriorReportLocation: priorLocation,
		Recipients:          cfg.Recipients,
		SummarizerID:        cfg.ID,
		Timestamp:           time.Now().UTC(),
	}
	key := models.LedgerKey(cfg.ID, receipt.Timestamp)
	if err := s.ledger.AppendSummary(ctx, key, summary); err != nil {
		log.Error("Failed to persist summary", "error", err)
		return nil, fmt.Errorf("failed to persist summary: %w", err)
	}

	log.Info("Summary persisted.", "key", key)
	return &summary, nil
}
