package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/spectacles/vertex-dashboards/internal/models"
)

// ReceiveWebhook runs the full intake flow for one webhook delivery:
// config lookup, attachment decode and validation, blob write, receipt,
// summarization, email. Each step depends on the previous one succeeding.
//
// An unknown summarizer id is not an error: the delivery is logged and
// dropped so the upstream BI tool does not retry-storm a webhook that was
// simply never configured. Nothing is written in that case.
func (s *Service) ReceiveWebhook(ctx context.Context, summarizerID string, hook models.DashboardWebhook) error {
	log := slog.With("summarizerId", summarizerID, "executionId", uuid.NewString())

	cfg, err := s.configs.Get(ctx, summarizerID)
	if errors.Is(err, ErrNotFound) {
		log.Info("No summarizer configured for this id, ignoring delivery.")
		return nil
	}
	if err != nil {
		log.Error("Failed to load summarizer", "error", err)
		return fmt.Errorf("failed to load summarizer %s: %w", summarizerID, err)
	}

	data, err := base64.StdEncoding.DecodeString(hook.Attachment.Data)
	if err != nil {
		log.Warn("Attachment is not valid base64", "error", err)
		return fmt.Errorf("%w: decode base64: %v", ErrInvalidAttachment, err)
	}

	pageCount, err := s.countPages(data)
	if err != nil {
		log.Warn("Attachment does not parse as a PDF", "error", err)
		return fmt.Errorf("%w: parse pdf: %v", ErrInvalidAttachment, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	objectName := models.ReportObjectName(summarizerID, now)
	if err := s.reports.Write(ctx, objectName, data); err != nil {
		log.Error("Failed to store report", "error", err, "object", objectName)
		return fmt.Errorf("failed to store report: %w", err)
	}
	log = log.With("reportLocation", objectName)
	log.Info("Report stored.", "pageCount", pageCount)

	receipt := models.Receipt{
		Timestamp:      now,
		ReportLocation: objectName,
		SummarizerID:   summarizerID,
		PageCount:      pageCount,
	}
	if err := s.ledger.AppendReceipt(ctx, models.LedgerKey(summarizerID, now), receipt); err != nil {
		log.Error("Failed to record receipt", "error", err)
		return fmt.Errorf("failed to record receipt: %w", err)
	}

	summary, err := s.Summarize(ctx, models.SummaryRequest{Summarizer: *cfg, Receipt: receipt})
	if err != nil {
		return err
	}

	if err := s.mail.Dispatch(ctx, *summary, *cfg, data, hook.ScheduledPlan.Title); err != nil {
		// The summary is already durable; only the notification was lost.
		log.Error("Failed to dispatch summary email", "error", err)
		return fmt.Errorf("failed to dispatch summary email: %w", err)
	}

	log.Info("Webhook processed.")
	return nil
}

// pdfPageCount validates the decoded attachment and returns its page count.
func pdfPageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}
