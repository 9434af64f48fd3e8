// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes an assembled business plan: plain text for
// download, Markdown for editing, rendered HTML for the web preview, and
// YAML for the history export.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// Text renders the plan as the plain-text download artifact: one block
// per section, in plan order, under a double-ruled heading.
func Text(plan *types.BusinessPlan) string {
	var b strings.Builder
	for i, s := range plan.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Name)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(s.Name)))
		b.WriteString("\n\n")
		b.WriteString(s.Text)
	}
	b.WriteString("\n")
	return b.String()
}

// Markdown renders the plan as a single Markdown document with a
// top-level title and one second-level heading per section.
func Markdown(plan *types.BusinessPlan) string {
	var b strings.Builder
	b.WriteString("# Business Plan")
	if plan.Topic != "" {
		fmt.Fprintf(&b, ": %s", plan.Topic)
	}
	b.WriteString("\n")
	for _, s := range plan.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", s.Name, s.Text)
	}
	return b.String()
}

// HTML converts the Markdown rendering to HTML for the web preview.
func HTML(plan *types.BusinessPlan) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(plan)), &buf); err != nil {
		return "", fmt.Errorf("rendering plan HTML: %w", err)
	}
	return buf.String(), nil
}

// YAML marshals the full plan, including per-section validity and call
// counts, for the history export.
func YAML(plan *types.BusinessPlan) ([]byte, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshaling plan YAML: %w", err)
	}
	return data, nil
}
