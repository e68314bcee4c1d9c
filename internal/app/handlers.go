package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/spectacles/vertex-dashboards/internal/models"
	"github.com/spectacles/vertex-dashboards/internal/services"
)

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		if err := a.db.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) createSummarizer(w http.ResponseWriter, r *http.Request) {
	var cfg models.Summarizer
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "could not parse JSON body")
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		if cfg.ID == "" {
			cfg.ID = id
		} else if cfg.ID != id {
			respondError(w, http.StatusBadRequest, "body id does not match path id")
			return
		}
	}
	if err := validateSummarizer(cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.configs.Put(r.Context(), cfg); err != nil {
		slog.Error("Failed to create summarizer", "summarizerId", cfg.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store summarizer")
		return
	}
	slog.Info("Summarizer created.", "summarizerId", cfg.ID)
	w.WriteHeader(http.StatusNoContent)
}

func validateSummarizer(cfg models.Summarizer) error {
	if cfg.ID == "" {
		return fmt.Errorf("summarizer id must not be empty")
	}
	if len(cfg.Recipients) == 0 {
		return fmt.Errorf("summarizer must have at least one recipient")
	}
	for _, rcpt := range cfg.Recipients {
		if _, err := mail.ParseAddress(rcpt); err != nil {
			return fmt.Errorf("invalid recipient address %q", rcpt)
		}
	}
	return nil
}

func (a *App) getSummarizer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg, err := a.configs.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no summarizer %s", id))
		return
	}
	if err != nil {
		slog.Error("Failed to read summarizer", "summarizerId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read summarizer")
		return
	}

	status := models.SummarizerStatus{Summarizer: *cfg}
	receipt, err := a.ledger.LatestReceipt(r.Context(), id)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		slog.Error("Failed to read latest receipt", "summarizerId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read latest receipt")
		return
	}
	if receipt != nil {
		ts := receipt.Timestamp
		status.LastReceiptTimestamp = &ts
	}
	respondJSON(w, http.StatusOK, status)
}

func (a *App) listSummarizers(w http.ResponseWriter, r *http.Request) {
	cfgs, err := a.configs.List(r.Context())
	if err != nil {
		slog.Error("Failed to list summarizers", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list summarizers")
		return
	}

	statuses := make([]models.SummarizerStatus, len(cfgs))
	eg, gctx := errgroup.WithContext(r.Context())
	eg.SetLimit(10)
	for i, cfg := range cfgs {
		statuses[i] = models.SummarizerStatus{Summarizer: cfg}
		eg.Go(func() error {
			receipt, err := a.ledger.LatestReceipt(gctx, cfg.ID)
			if errors.Is(err, services.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("latest receipt for %s: %w", cfg.ID, err)
			}
			ts := receipt.Timestamp
			statuses[i].LastReceiptTimestamp = &ts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		slog.Error("Failed to resolve last receipts", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list summarizers")
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}

func (a *App) deleteSummarizer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.configs.Delete(r.Context(), id); err != nil {
		slog.Error("Failed to delete summarizer", "summarizerId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete summarizer")
		return
	}
	slog.Info("Summarizer deleted.", "summarizerId", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "could not parse JSON body")
		return
	}
	if req.Summarizer.ID == "" {
		respondError(w, http.StatusBadRequest, "summarizer id must not be empty")
		return
	}

	summary, err := a.svc.Summarize(r.Context(), req)
	if err != nil {
		slog.Error("Summarization failed", "summarizerId", req.Summarizer.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "summarization failed")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (a *App) lastReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	receipt, err := a.ledger.LatestReceipt(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no receipts found for summarizer %s", id))
		return
	}
	if err != nil {
		slog.Error("Failed to read latest receipt", "summarizerId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read latest receipt")
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (a *App) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var hook models.DashboardWebhook
	if err := json.NewDecoder(r.Body).Decode(&hook); err != nil {
		respondError(w, http.StatusBadRequest, "could not parse JSON body")
		return
	}

	if err := a.svc.ReceiveWebhook(r.Context(), id, hook); err != nil {
		if errors.Is(err, services.ErrInvalidAttachment) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
