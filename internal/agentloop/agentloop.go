// Package agentloop provides the bounded agent loop primitive used by
// research, health-check, and enrichment runs. A Runner executes a
// multi-step conversation with a search-grounded model until the caller
// accepts the answer or the step and time budgets run out.
package agentloop

import (
	"context"
	"time"
)

// Loop outcomes. A partial result means the loop exhausted its budget
// before producing an accepted answer; it is not an error.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
)

// Source is a web citation surfaced by search grounding.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Request describes a single bounded loop execution. Accept decides
// whether a model answer finishes the loop: a nil error completes the
// run, a non-nil error is fed back to the model as a corrective nudge.
// A nil Accept completes on the first non-empty answer. MaxSteps,
// StepTimeout, and Budget fall back to runner defaults when zero.
type Request struct {
	System      string
	Prompt      string
	Accept      func(text string) error
	MaxSteps    int
	StepTimeout time.Duration
	Budget      time.Duration
}

// Result carries the final answer of a loop run. Text holds the last
// model answer even when the outcome is partial, so callers can salvage
// what the loop produced before exhaustion.
type Result struct {
	Text    string   `json:"text"`
	Steps   int      `json:"steps"`
	Outcome string   `json:"outcome"`
	Sources []Source `json:"sources,omitempty"`
}

// Complete reports whether the loop produced an accepted answer.
func (r *Result) Complete() bool {
	return r.Outcome == OutcomeComplete
}

// Runner executes bounded agent loops.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}
