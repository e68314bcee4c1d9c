package services

import (
	"strings"
	"testing"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

const priorMarker = "----Beginning of Prior Report----"
const customMarker = "----Beginning of Custom Instructions----"

func TestBuildPromptFirstRun(t *testing.T) {
	cfg := models.Summarizer{ID: "s1", UsePriorReports: false}

	prompt := BuildPrompt(cfg, nil)

	if !strings.HasPrefix(prompt, firstRunPrompt) {
		t.Errorf("expected prompt to start with the first-run template, got:\n%s", prompt)
	}
	if strings.Contains(prompt, priorMarker) {
		t.Errorf("first-run prompt must not contain prior-report markers, got:\n%s", prompt)
	}
	if strings.Contains(prompt, customMarker) {
		t.Errorf("prompt without custom instructions must not contain the directive block, got:\n%s", prompt)
	}
}

func TestBuildPromptIgnoresPriorWhenDisabled(t *testing.T) {
	cfg := models.Summarizer{ID: "s1", UsePriorReports: false}
	prior := &models.Summary{Body: "X"}

	prompt := BuildPrompt(cfg, prior)

	if strings.Contains(prompt, priorMarker) || strings.Contains(prompt, "X") {
		t.Errorf("prior report must be ignored when use_prior_reports is false, got:\n%s", prompt)
	}
}

func TestBuildPromptIncludesPriorBodyVerbatim(t *testing.T) {
	cfg := models.Summarizer{ID: "s1", UsePriorReports: true}
	prior := &models.Summary{Body: "X"}

	prompt := BuildPrompt(cfg, prior)

	if !strings.Contains(prompt, priorMarker) {
		t.Errorf("expected prior-report block, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "\n\nX\n\n") {
		t.Errorf("expected prior body verbatim between blank lines, got:\n%s", prompt)
	}
}

func TestBuildPromptCustomInstructions(t *testing.T) {
	cases := []struct {
		name         string
		instructions string
		want         bool
	}{
		{"present", "Focus on revenue.", true},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := models.Summarizer{ID: "s1", CustomInstructions: tc.instructions}
			prompt := BuildPrompt(cfg, nil)

			if got := strings.Contains(prompt, customMarker); got != tc.want {
				t.Errorf("custom-instruction block present = %v, want %v; prompt:\n%s", got, tc.want, prompt)
			}
			if tc.want && !strings.Contains(prompt, tc.instructions) {
				t.Errorf("expected instructions verbatim, got:\n%s", prompt)
			}
		})
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	cfg := models.Summarizer{ID: "s1", UsePriorReports: true, CustomInstructions: "Short please."}
	prior := &models.Summary{Body: "Prior text"}

	if BuildPrompt(cfg, prior) != BuildPrompt(cfg, prior) {
		t.Error("BuildPrompt must be deterministic for identical inputs")
	}
}
