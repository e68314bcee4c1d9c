package services

import (
	"context"
	"fmt"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

type fakeConfigs struct {
	items map[string]models.Summarizer
}

func newFakeConfigs() *fakeConfigs {
	return &fakeConfigs{items: map[string]models.Summarizer{}}
}

func (f *fakeConfigs) Put(_ context.Context, s models.Summarizer) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeConfigs) Get(_ context.Context, id string) (*models.Summarizer, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (f *fakeConfigs) List(_ context.Context) ([]models.Summarizer, error) {
	var out []models.Summarizer
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeConfigs) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeLedger struct {
	receipts  map[string]models.Receipt
	summaries map[string]models.Summary
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		receipts:  map[string]models.Receipt{},
		summaries: map[string]models.Summary{},
	}
}

func (f *fakeLedger) AppendReceipt(_ context.Context, key string, r models.Receipt) error {
	f.receipts[key] = r
	return nil
}

func (f *fakeLedger) AppendSummary(_ context.Context, key string, s models.Summary) error {
	f.summaries[key] = s
	return nil
}

func (f *fakeLedger) HasReceipt(_ context.Context, key string) (bool, error) {
	_, ok := f.receipts[key]
	return ok, nil
}

func (f *fakeLedger) LatestReceipt(_ context.Context, summarizerID string) (*models.Receipt, error) {
	var best *models.Receipt
	for _, r := range f.receipts {
		if r.SummarizerID != summarizerID {
			continue
		}
		if best == nil || r.Timestamp.After(best.Timestamp) {
			r := r
			best = &r
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (f *fakeLedger) LatestSummary(_ context.Context, summarizerID string) (*models.Summary, error) {
	var best *models.Summary
	for _, s := range f.summaries {
		if s.SummarizerID != summarizerID {
			continue
		}
		if best == nil || s.Timestamp.After(best.Timestamp) {
			s := s
			best = &s
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

type fakeReports struct {
	objects map[string][]byte
}

func newFakeReports() *fakeReports {
	return &fakeReports{objects: map[string][]byte{}}
}

func (f *fakeReports) Write(_ context.Context, objectName string, data []byte) error {
	f.objects[objectName] = data
	return nil
}

func (f *fakeReports) Read(_ context.Context, objectName string) ([]byte, error) {
	data, ok := f.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("object %s does not exist", objectName)
	}
	return data, nil
}

func (f *fakeReports) URI(objectName string) string {
	return "gs://test-bucket/" + objectName
}

type generatorCall struct {
	prompt string
	uris   []string
}

type fakeGenerator struct {
	calls []generatorCall
	body  string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, reportURIs ...string) (string, error) {
	f.calls = append(f.calls, generatorCall{prompt: prompt, uris: reportURIs})
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

type sentEmail struct {
	summary models.Summary
	cfg     models.Summarizer
	pdf     []byte
	title   string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeMailer) Dispatch(_ context.Context, summary models.Summary, cfg models.Summarizer, pdf []byte, title string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{summary: summary, cfg: cfg, pdf: pdf, title: title})
	return nil
}

// testHarness bundles a Service with its fakes. PDF parsing is stubbed out
// so tests don't need real PDF fixtures; the tests that cover rejection of
// malformed PDFs use the real parser explicitly.
type testHarness struct {
	svc     *Service
	configs *fakeConfigs
	ledger  *fakeLedger
	reports *fakeReports
	model   *fakeGenerator
	mail    *fakeMailer
}

func newTestHarness() *testHarness {
	h := &testHarness{
		configs: newFakeConfigs(),
		ledger:  newFakeLedger(),
		reports: newFakeReports(),
		model:   &fakeGenerator{body: "A generated summary."},
		mail:    &fakeMailer{},
	}
	h.svc = New(h.configs, h.ledger, h.reports, h.model, h.mail)
	h.svc.countPages = func([]byte) (int, error) { return 1, nil }
	return h
}
