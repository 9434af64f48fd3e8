// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// defaultMaxRevisions bounds corrective re-prompts per section. The
// ceiling bounds cost and latency against a paid service; the retries
// target content quality, not transient failures, so there is no backoff.
const defaultMaxRevisions = 3

// Generator runs the section loop against a text backend.
type Generator struct {
	backend  TextBackend
	reporter Reporter
	maxRev   int
	model    string
}

// NewGenerator builds a Generator. reporter may be nil for silent use.
func NewGenerator(backend TextBackend, cfg types.GenerationConfig, reporter Reporter) (*Generator, error) {
	if backend == nil {
		return nil, errors.New("text backend is required")
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	maxRev := cfg.MaxRevisions
	if maxRev <= 0 {
		maxRev = defaultMaxRevisions
	}
	return &Generator{
		backend:  backend,
		reporter: reporter,
		maxRev:   maxRev,
		model:    cfg.Model,
	}, nil
}

// GeneratePlan processes the sections strictly in order, each fully
// resolved before the next begins, and returns the assembled plan. The
// plan always contains one result per spec, even when a section is still
// missing criteria after the revision ceiling — that is an accepted
// degraded outcome, not an error. The only error returns are context
// cancellation and an empty spec list.
func (g *Generator) GeneratePlan(ctx context.Context, specs []types.SectionSpec, topic string) (*types.BusinessPlan, error) {
	if len(specs) == 0 {
		return nil, errors.New("no sections to generate")
	}

	plan := &types.BusinessPlan{
		ID:    uuid.NewString(),
		Topic: topic,
		Model: g.model,
	}

	for i, spec := range specs {
		result, err := g.generateSection(ctx, spec, topic, i, len(specs))
		if err != nil {
			return nil, err
		}
		plan.Sections = append(plan.Sections, result)
	}

	plan.CreatedAt = time.Now().UTC()
	return plan, nil
}

// generateSection runs the draft/validate/revise loop for one section:
// one initial request, then up to maxRev corrective rounds, stopping the
// first time validation passes. On exhaustion the last draft is kept.
func (g *Generator) generateSection(ctx context.Context, spec types.SectionSpec, topic string, index, total int) (types.SectionResult, error) {
	g.reporter.SectionStart(spec.Name, index, total)

	text, err := g.call(ctx, spec.Name, InitialPrompt(spec, topic))
	if err != nil {
		return types.SectionResult{}, err
	}
	calls := 1

	valid := false
	for attempt := 1; attempt <= g.maxRev; attempt++ {
		result := Validate(text, spec.Criteria)
		if result.IsValid {
			valid = true
			break
		}

		g.reporter.Revising(spec.Name, attempt, g.maxRev)
		text, err = g.call(ctx, spec.Name, FeedbackPrompt(spec, result, text))
		if err != nil {
			return types.SectionResult{}, err
		}
		calls++
	}

	// The last corrective round's draft is never re-prompted, but its
	// validity is still worth recording.
	if !valid {
		valid = Validate(text, spec.Criteria).IsValid
	}

	g.reporter.SectionDone(spec.Name, valid, calls)

	return types.SectionResult{
		Name:     spec.Name,
		Criteria: spec.Criteria,
		Text:     text,
		Valid:    valid,
		Calls:    calls,
	}, nil
}

// call sends one prompt to the backend. Backend failures are reported and
// degrade to empty text for the attempt; only context cancellation aborts
// the run.
func (g *Generator) call(ctx context.Context, name, prompt string) (string, error) {
	text, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		g.reporter.CallFailed(name, err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}
