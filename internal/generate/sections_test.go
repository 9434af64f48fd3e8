// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSections(t *testing.T) {
	specs := DefaultSections()

	wantNames := []string{
		"Executive Summary",
		"Company Description",
		"Market Analysis",
		"Organization & Management",
		"Product Line",
		"Marketing & Sales",
		"Funding Request",
		"Financial Projections",
	}

	if len(specs) != len(wantNames) {
		t.Fatalf("got %d sections, want %d", len(specs), len(wantNames))
	}
	for i, spec := range specs {
		if spec.Name != wantNames[i] {
			t.Errorf("section %d = %q, want %q", i, spec.Name, wantNames[i])
		}
		if len(spec.Criteria) != 3 {
			t.Errorf("section %q has %d criteria, want 3", spec.Name, len(spec.Criteria))
		}
	}

	if err := validateSections(specs); err != nil {
		t.Errorf("built-in table failed validation: %v", err)
	}
}

func TestLoadSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		errMsg  string
	}{
		{
			name: "valid file",
			content: `sections:
  - name: Overview
    criteria: [mission, vision]
  - name: Team
    criteria: [founders]
`,
			wantLen: 2,
		},
		{
			name:    "empty file",
			content: "sections: []\n",
			errMsg:  "no sections defined",
		},
		{
			name: "duplicate names",
			content: `sections:
  - name: Overview
    criteria: [a]
  - name: Overview
    criteria: [b]
`,
			errMsg: "duplicate section",
		},
		{
			name: "section without criteria",
			content: `sections:
  - name: Overview
    criteria: []
`,
			errMsg: "no criteria",
		},
		{
			name: "empty section name",
			content: `sections:
  - name: ""
    criteria: [a]
`,
			errMsg: "empty name",
		},
		{
			name: "empty criterion",
			content: `sections:
  - name: Overview
    criteria: ["a", ""]
`,
			errMsg: "empty criterion",
		},
		{
			name:    "not yaml",
			content: "{{{",
			errMsg:  "parsing sections file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sections.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			specs, err := LoadSections(path)
			if tt.errMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(specs) != tt.wantLen {
				t.Errorf("got %d sections, want %d", len(specs), tt.wantLen)
			}
		})
	}
}

func TestLoadSectionsMissingFile(t *testing.T) {
	_, err := LoadSections(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading sections file") {
		t.Errorf("error = %v", err)
	}
}
