// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// SystemPrompt is the system role instruction sent with every request.
const SystemPrompt = "You are an expert business plan writer."

// feedbackPromptTmpl is the corrective prompt sent when a draft is missing
// criteria. It lists the missing phrases verbatim, quotes the full current
// draft, and instructs the model to return only the revised section.
var feedbackPromptTmpl = template.Must(template.New("feedback").Parse(`The current {{.Section}} section needs improvement:
Missing criteria: {{.Missing}}

Current section:
{{.Text}}

Please revise the {{.Section}} section to address these missing points.
Provide only the revised section without any explanations.
`))

// InitialPrompt builds the first request for a section. When topic is
// non-empty it is appended as an extra sentence so the model grounds the
// section in the user's business idea.
func InitialPrompt(spec types.SectionSpec, topic string) string {
	prompt := fmt.Sprintf("Write a %s section for a business plan. Include information about: %s.",
		spec.Name, strings.Join(spec.Criteria, ", "))
	if topic != "" {
		prompt += fmt.Sprintf(" The business is: %s.", topic)
	}
	return prompt
}

// FeedbackPrompt builds a corrective request from a failed validation.
// The missing criteria appear verbatim, in the section's criterion order,
// followed by the full current draft.
func FeedbackPrompt(spec types.SectionSpec, result types.ValidationResult, current string) string {
	missing := result.Missing(spec.Criteria)
	var buf bytes.Buffer
	err := feedbackPromptTmpl.Execute(&buf, struct {
		Section string
		Missing string
		Text    string
	}{
		Section: spec.Name,
		Missing: strings.Join(missing, ", "),
		Text:    current,
	})
	if err != nil {
		// The template only references string fields; execution cannot fail.
		panic(err)
	}
	return buf.String()
}
