// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drives a text-generation backend through the
// business-plan sections, validating each draft against its criterion
// phrases and re-prompting until the draft passes or the revision ceiling
// is reached.
package generate

import (
	"context"
	"fmt"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// TextBackend abstracts the text-generation API so tests can supply a
// mock. Generate sends one prompt (with the fixed system instruction)
// and returns the model's text.
type TextBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewBackend constructs the backend selected by cfg.Provider.
func NewBackend(cfg types.AIConfig) (TextBackend, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return NewOpenAIBackend(cfg)
	case types.ProviderClaude:
		return NewClaudeBackend(cfg)
	case "":
		return nil, fmt.Errorf("no provider configured: set provider to openai or claude")
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
