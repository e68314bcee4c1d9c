// Package mailer dispatches finished summaries to recipients through the
// Resend transactional email API.
package mailer

import (
	"context"
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

const subject = "Your Dashboard Has Been AI Analyzed!"

const attachmentFilename = "dashboard.pdf"

//go:embed email.html
var emailTemplate string

// Mailer sends summary emails via Resend.
type Mailer struct {
	client *resend.Client
	from   string
}

func New(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Dispatch sends one email carrying the summary to all configured
// recipients. The original report bytes are attached only when the
// summarizer asks for it. A delivery failure surfaces to the caller; the
// summary itself is already persisted by then.
func (m *Mailer) Dispatch(ctx context.Context, summary models.Summary, cfg models.Summarizer, pdf []byte, title string) error {
	req := BuildRequest(m.from, summary, cfg, pdf, title)
	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("failed to send summary email: %w", err)
	}
	return nil
}

// BuildRequest assembles the Resend payload for a summary email.
func BuildRequest(from string, summary models.Summary, cfg models.Summarizer, pdf []byte, title string) *resend.SendEmailRequest {
	subj := subject
	if title != "" {
		subj = fmt.Sprintf("%s: %s", title, subject)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      cfg.Recipients,
		Subject: subj,
		Html:    strings.ReplaceAll(emailTemplate, "__body__", renderBody(summary.Body)),
	}
	if cfg.AttachPDF && len(pdf) > 0 {
		req.Attachments = []*resend.Attachment{
			{Filename: attachmentFilename, Content: pdf},
		}
	}
	return req
}

// renderBody converts the model's plain-text summary into HTML for the
// email template: entities escaped, newlines rendered as line breaks.
func renderBody(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n")
}
