// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"strings"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// Validate checks a draft against a section's criteria. A criterion
// passes when its phrase occurs anywhere in the text, case-insensitively.
// The check is deliberately a substring match, not a semantic one: it is
// a nudge to the model, not a correctness guarantee.
func Validate(text string, criteria []string) types.ValidationResult {
	lower := strings.ToLower(text)
	result := types.ValidationResult{
		IsValid:  true,
		Feedback: make(map[string]types.CriterionStatus, len(criteria)),
	}
	for _, c := range criteria {
		if strings.Contains(lower, strings.ToLower(c)) {
			result.Feedback[c] = types.CriterionPresent
		} else {
			result.Feedback[c] = types.CriterionMissing
			result.IsValid = false
		}
	}
	return result
}
