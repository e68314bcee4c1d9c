package services

import (
	"fmt"
	"strings"

	"github.com/spectacles/vertex-dashboards/internal/models"
)

// The user-turn prompt templates. The analyst persona lives in the model's
// system instruction (see internal/gcp/vertex.go), not in these.

const firstRunPrompt = "Summarise all the key metrics and findings from the report."

const priorReportPrompt = `The prior PDF is included. It is the second PDF included. The first PDF is the current report. Use the prior report to highlight changes and comparisons. You should highlight how metrics have changed (or not changed) between the prior report and the current report. Only reference the prior report if it is interesting and useful to do so. Prior report content:

----Beginning of Prior Report----

%s

----End of Prior Report----`

const customInstructionsPrompt = `The recipient of the summary has provided custom instructions. Factor these instructions into the report. The instructions are:

----Beginning of Custom Instructions----

%s

----End of Custom Instructions----`

// BuildPrompt assembles the user-turn prompt for one summarization run.
// prior is the most recent Summary for this summarizer, or nil on a first
// run; it is only consulted when the config asks for prior reports. The
// output is a pass-through concatenation: no trimming, no length capping.
func BuildPrompt(cfg models.Summarizer, prior *models.Summary) string {
	sections := []string{firstRunPrompt}

	if cfg.UsePriorReports && prior != nil {
		sections = append(sections, fmt.Sprintf(priorReportPrompt, prior.Body))
	}

	if cfg.CustomInstructions != "" {
		sections = append(sections, fmt.Sprintf(customInstructionsPrompt, cfg.CustomInstructions))
	}

	return strings.Join(sections, "\n\n")
}
