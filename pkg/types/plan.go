// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SectionSpec names one business-plan section and the criterion phrases
// its text must mention. Specs are static: defined once, never mutated.
type SectionSpec struct {
	// Name is the section heading (e.g. "Executive Summary").
	Name string `json:"name" yaml:"name"`

	// Criteria lists the phrases the generated text must contain.
	Criteria []string `json:"criteria" yaml:"criteria"`
}

// CriterionStatus marks one criterion as found or not found in a draft.
type CriterionStatus string

const (
	CriterionPresent CriterionStatus = "Present"
	CriterionMissing CriterionStatus = "Missing"
)

// ValidationResult is the outcome of checking one draft against its
// section's criteria. It is recomputed from scratch on every attempt and
// never persisted.
type ValidationResult struct {
	// IsValid is true when every criterion is present.
	IsValid bool `json:"is_valid"`

	// Feedback maps each criterion phrase to Present or Missing.
	Feedback map[string]CriterionStatus `json:"feedback"`
}

// Missing returns the criteria marked Missing, in the order given.
// The order argument is needed because Feedback is a map.
func (v ValidationResult) Missing(order []string) []string {
	var out []string
	for _, c := range order {
		if v.Feedback[c] == CriterionMissing {
			out = append(out, c)
		}
	}
	return out
}

// SectionResult holds the final text for one section along with how the
// generation loop arrived at it.
type SectionResult struct {
	// Name is the section heading.
	Name string `json:"name" yaml:"name"`

	// Criteria is the section's criterion list, kept for provenance.
	Criteria []string `json:"criteria" yaml:"criteria"`

	// Text is the last draft produced for the section. It is kept even
	// when criteria are still missing after the revision ceiling.
	Text string `json:"text" yaml:"text"`

	// Valid is true when the final draft satisfied every criterion.
	Valid bool `json:"valid" yaml:"valid"`

	// Calls is the number of backend calls made for this section
	// (1 initial + up to MaxRevisions corrective).
	Calls int `json:"calls" yaml:"calls"`
}

// BusinessPlan is the assembled output: one SectionResult per section
// spec, in spec order.
type BusinessPlan struct {
	// ID identifies a stored plan (UUID; empty until assigned).
	ID string `json:"id" yaml:"id"`

	// Topic is the optional business idea the plan was generated for.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	// Model is the model identifier used for generation.
	Model string `json:"model" yaml:"model"`

	// CreatedAt is when generation completed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Sections lists the plan's sections in generation order.
	Sections []SectionResult `json:"sections" yaml:"sections"`
}

// Section returns the result for the named section, or nil if absent.
func (p *BusinessPlan) Section(name string) *SectionResult {
	for i := range p.Sections {
		if p.Sections[i].Name == name {
			return &p.Sections[i]
		}
	}
	return nil
}

// ValidCount returns how many sections satisfied all their criteria.
func (p *BusinessPlan) ValidCount() int {
	n := 0
	for _, s := range p.Sections {
		if s.Valid {
			n++
		}
	}
	return n
}
