package models

import (
	"fmt"
	"time"
)

// TimestampLayout renders a timestamp with second-level granularity as a
// fixed-width numeric string. It is the correlation key between a Receipt,
// its Summary, and the stored report object.
const TimestampLayout = "20060102150405"

// LedgerKey returns the document id for a receipt or summary belonging to
// the given summarizer. The timestamp must be the Receipt's stored
// timestamp so that a re-run addresses the same Summary document.
func LedgerKey(summarizerID string, ts time.Time) string {
	return fmt.Sprintf("%s-%s", summarizerID, ts.UTC().Format(TimestampLayout))
}

// ReportObjectName returns the GCS object name for a report received at ts.
func ReportObjectName(summarizerID string, ts time.Time) string {
	return fmt.Sprintf("summaries/%s/%s.pdf", summarizerID, ts.UTC().Format(TimestampLayout))
}

// Summarizer describes how and to whom a dashboard report is summarized
// and emailed. Re-creating with the same id overwrites the stored config.
type Summarizer struct {
	ID                 string   `json:"id" firestore:"id"`
	Recipients         []string `json:"recipients" firestore:"recipients"`
	Name               string   `json:"name" firestore:"name"`
	UsePriorReports    bool     `json:"use_prior_reports" firestore:"use_prior_reports"`
	AttachPDF          bool     `json:"attach_pdf" firestore:"attach_pdf"`
	CustomInstructions string   `json:"custom_instructions,omitempty" firestore:"custom_instructions,omitempty"`
}

// Attachment is the base64-encoded report PDF carried by a webhook delivery.
type Attachment struct {
	Data      string `json:"data"`
	Mimetype  string `json:"mimetype"`
	Extension string `json:"extension"`
}

// ScheduledPlan is the BI tool's scheduling metadata for a delivery.
type ScheduledPlan struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	ScheduledPlanID int    `json:"scheduled_plan_id"`
	Type            string `json:"type"`
}

// DashboardWebhook is the inbound payload on POST /webhook/{id}.
type DashboardWebhook struct {
	Attachment    Attachment    `json:"attachment"`
	ScheduledPlan ScheduledPlan `json:"scheduled_plan"`
	Type          string        `json:"type"`
}

// Receipt records that a report attachment was received and stored,
// independent of whether summarization succeeded. Immutable once written.
type Receipt struct {
	Timestamp      time.Time `json:"timestamp" firestore:"timestamp"`
	ReportLocation string    `json:"report_location" firestore:"report_location"`
	SummarizerID   string    `json:"summarizer_id" firestore:"summarizer_id"`
	PageCount      int       `json:"page_count,omitempty" firestore:"page_count,omitempty"`
}

// Summary is the persisted result of one summarization attempt. Immutable;
// retained indefinitely so it can serve as the prior summary of a later run.
type Summary struct {
	Body                string    `json:"body" firestore:"body"`
	Prompt              string    `json:"prompt" firestore:"prompt"`
	ReportLocation      string    `json:"report_location" firestore:"report_location"`
	PriorReportLocation string    `json:"prior_report_location,omitempty" firestore:"prior_report_location,omitempty"`
	Recipients          []string  `json:"recipients" firestore:"recipients"`
	SummarizerID        string    `json:"summarizer_id" firestore:"summarizer_id"`
	Timestamp           time.Time `json:"timestamp" firestore:"timestamp"`
}

// SummaryRequest is the body of POST /summarizer/{id}/summarize.
type SummaryRequest struct {
	Summarizer Summarizer `json:"summarizer"`
	Receipt    Receipt    `json:"receipt"`
}

// SummarizerStatus is a Summarizer enriched with the timestamp of its most
// recent receipt, when one exists.
type SummarizerStatus struct {
	Summarizer
	LastReceiptTimestamp *time.Time `json:"last_receipt_timestamp,omitempty"`
}
