// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// DefaultSections returns the built-in business-plan structure: eight
// sections, each with the three criterion phrases its text must cover.
// Order is significant; the generated plan follows it exactly.
func DefaultSections() []types.SectionSpec {
	return []types.SectionSpec{
		{Name: "Executive Summary", Criteria: []string{"business concept", "financial features", "financial requirements"}},
		{Name: "Company Description", Criteria: []string{"company goals", "target market", "competitive advantage"}},
		{Name: "Market Analysis", Criteria: []string{"industry description", "target market", "market test results"}},
		{Name: "Organization & Management", Criteria: []string{"organizational structure", "management team", "board of advisors"}},
		{Name: "Product Line", Criteria: []string{"product description", "competitive comparison", "sales literature"}},
		{Name: "Marketing & Sales", Criteria: []string{"marketing strategy", "sales force", "sales activities"}},
		{Name: "Funding Request", Criteria: []string{"current funding requirement", "future funding requirements", "use of funds"}},
		{Name: "Financial Projections", Criteria: []string{"income statements", "cash flow statements", "balance sheets"}},
	}
}

// sectionsFile is the YAML shape of a custom sections file.
type sectionsFile struct {
	Sections []types.SectionSpec `yaml:"sections"`
}

// LoadSections reads a custom section table from a YAML file. The file
// must define at least one section; names must be unique and non-empty,
// and every section needs at least one non-empty criterion.
func LoadSections(path string) ([]types.SectionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sections file: %w", err)
	}
	var f sectionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sections file: %w", err)
	}
	if err := validateSections(f.Sections); err != nil {
		return nil, fmt.Errorf("invalid sections file %s: %w", path, err)
	}
	return f.Sections, nil
}

func validateSections(specs []types.SectionSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("no sections defined")
	}
	seen := make(map[string]bool)
	for i, s := range specs {
		if s.Name == "" {
			return fmt.Errorf("section %d: empty name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate section %q", s.Name)
		}
		seen[s.Name] = true
		if len(s.Criteria) == 0 {
			return fmt.Errorf("section %q: no criteria", s.Name)
		}
		for j, c := range s.Criteria {
			if c == "" {
				return fmt.Errorf("section %q: empty criterion %d", s.Name, j)
			}
		}
	}
	return nil
}
