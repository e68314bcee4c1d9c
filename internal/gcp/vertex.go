package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// SummarySystemPrompt is the model's persona. It is passed on the system
// instruction channel, never concatenated into the user prompt.
const SummarySystemPrompt = "You are the world's best data analyst. Generate the most useful report possible from the PDF, " +
	"highlighting key metrics and action-worthy insights. " +
	"The response you provide is going to be added to an email as-is. Please format your answer in a way that will make " +
	"a beautiful and easily readable email. It should be plain text, not HTML, but should use new lines where appropriate " +
	"and outline the information in an easy to read way."

// VertexClient holds the pre-configured summary model.
type VertexClient struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
}

// NewVertexClient creates a client with the summary model configured.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarySystemPrompt)},
	}

	return &VertexClient{
		model:      model,
		baseClient: baseClient,
	}, nil
}

// Generate invokes the summary model with the prompt and the referenced
// report PDFs. Reports are passed as gs:// URIs, not inlined bytes. Any
// model error is fatal to the caller's attempt; no retry happens here.
func (c *VertexClient) Generate(ctx context.Context, prompt string, reportURIs ...string) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	for _, uri := range reportURIs {
		parts = append(parts, genai.FileData{
			MIMEType: "application/pdf",
			FileURI:  uri,
		})
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	body := extractText(resp)
	if body == "" {
		return "", fmt.Errorf("gemini response contained no text")
	}
	return body, nil
}

// extractText robustly pulls text content out of the model's response.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
