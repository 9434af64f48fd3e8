// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"io"
)

// Reporter receives progress events from the generation loop. Events are
// display-only; they carry no control meaning.
type Reporter interface {
	// SectionStart is emitted before a section's first draft request.
	// index is zero-based; total is the number of sections.
	SectionStart(name string, index, total int)

	// Revising is emitted before each corrective re-prompt.
	Revising(name string, attempt, max int)

	// SectionDone is emitted when a section is final, valid or not.
	SectionDone(name string, valid bool, calls int)

	// CallFailed is emitted when a backend call errors. The attempt
	// proceeds with empty text.
	CallFailed(name string, err error)
}

// WriterReporter prints human-readable progress lines to W.
type WriterReporter struct {
	W io.Writer
}

func (r WriterReporter) SectionStart(name string, index, total int) {
	fmt.Fprintf(r.W, "Generating %s... (%d/%d)\n", name, index+1, total)
}

func (r WriterReporter) Revising(name string, attempt, max int) {
	fmt.Fprintf(r.W, "Improving %s (iteration %d/%d)...\n", name, attempt, max)
}

func (r WriterReporter) SectionDone(name string, valid bool, calls int) {
	if valid {
		fmt.Fprintf(r.W, "%s meets all criteria.\n", name)
		return
	}
	fmt.Fprintf(r.W, "Warning: %s may not meet all criteria after %d calls.\n", name, calls)
}

func (r WriterReporter) CallFailed(name string, err error) {
	fmt.Fprintf(r.W, "Error generating %s: %v\n", name, err)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) SectionStart(string, int, int) {}
func (NopReporter) Revising(string, int, int)     {}
func (NopReporter) SectionDone(string, bool, int) {}
func (NopReporter) CallFailed(string, error)      {}
