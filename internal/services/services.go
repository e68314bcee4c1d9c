// Package services holds the summarization flow: webhook intake, the
// orchestration sequence, and the prompt builder. All collaborators are
// narrow interfaces so the flow can be exercised against fakes.
package services

import (
	"context"
	"errors"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidAttachment marks a webhook attachment that could not be decoded
// or does not parse as a PDF. Nothing is written when it is returned.
var ErrInvalidAttachment = errors.New("invalid attachment")

// ConfigStore persists summarizer configurations keyed by id.
type ConfigStore interface {
	Put(ctx context.Context, s models.Summarizer) error
	Get(ctx context.Context, id string) (*models.Summarizer, error)
	List(ctx context.Context) ([]models.Summarizer, error)
	Delete(ctx context.Context, id string) error
}

// Ledger is the append-only log of receipts and summaries. Entries are
// keyed by the caller; the ledger never mutates or deletes.
type Ledger interface {
	AppendReceipt(ctx context.Context, key string, r models.Receipt) error
	AppendSummary(ctx context.Context, key string, s models.Summary) error
	HasReceipt(ctx context.Context, key string) (bool, error)
	LatestReceipt(ctx context.Context, summarizerID string) (*models.Receipt, error)
	LatestSummary(ctx context.Context, summarizerID string) (*models.Summary, error)
}

// ReportStore holds raw report PDFs addressed by object name.
type ReportStore interface {
	Write(ctx context.Context, objectName string, data []byte) error
	Read(ctx context.Context, objectName string) ([]byte, error)
	URI(objectName string) string
}

// Generator produces a summary body from a prompt and one or more stored
// report references.
type Generator interface {
	Generate(ctx context.Context, prompt string, reportURIs ...string) (string, error)
}

// Dispatcher delivers a finished summary to the configured recipients.
// pdf carries the original report bytes; the dispatcher attaches them only
// when the summarizer asks for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, summary models.Summary, cfg models.Summarizer, pdf []byte, title string) error
}

// Service wires the flow together. Construct with New; all fields are
// required.
type Service struct {
	configs ConfigStore
	ledger  Ledger
	reports ReportStore
	model   Generator
	mail    Dispatcher

	countPages func(data []byte) (int, error)
}

// New returns a Service backed by the given collaborators.
func New(configs ConfigStore, ledger Ledger, reports ReportStore, model Generator, mail Dispatcher) *Service {
	return &Service{
		configs:    configs,
		ledger:     ledger,
		reports:    reports,
		model:      model,
		mail:       mail,
		countPages: pdfPageCount,
	}
}
