package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scoutd/scout/internal/agentloop"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/pkg/formatting"
	"github.com/scoutd/scout/pkg/pagination"
)

// seedLimit caps how many known venues are surfaced to the agent.
const seedLimit = 50

// Orchestrator drives research runs: it seeds the agent loop with the
// event brief and venues already on file, then parses the structured
// answer into a Report.
type Orchestrator struct {
	runner agentloop.Runner
	venues venues.System
	logger *slog.Logger
}

// Options modulates a single research run. NewOnly skips seeding the
// prompt with known venues.
type Options struct {
	NewOnly bool `json:"new_only,omitempty"`
}

// New creates a research orchestrator.
func New(runner agentloop.Runner, sys venues.System, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		venues: sys,
		logger: logger.With("system", "research"),
	}
}

// Research executes one research run for the given brief. An exhausted
// agent budget yields a partial report, not an error; only an unusable
// answer or an infrastructure failure is an error.
func (o *Orchestrator) Research(ctx context.Context, q Query, opts Options) (*Report, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var existing []string
	if !opts.NewOnly {
		names, err := o.seed(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("seed existing venues: %w", err)
		}
		existing = names
	}

	o.logger.Info(
		"research started",
		"event_type", q.EventType,
		"city", q.City,
		"seeded", len(existing),
	)

	result, err := o.runner.Run(ctx, agentloop.Request{
		System: systemPrompt,
		Prompt: buildPrompt(q, existing),
		Accept: func(text string) error {
			_, err := formatting.Parse[answer](text)
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("research agent: %w", err)
	}

	report := o.buildReport(q, result)

	o.logger.Info(
		"research finished",
		"outcome", report.Outcome,
		"candidates", len(report.Candidates),
		"warnings", len(report.Warnings),
		"steps", report.Steps,
	)

	return report, nil
}

// seed loads active venues that plausibly satisfy the brief: same city,
// event type in best_for, capacity covering the guest count, and loose
// neighborhood containment when one is specified.
func (o *Orchestrator) seed(ctx context.Context, q Query) ([]string, error) {
	status := venues.StatusActive
	filters := venues.Filters{
		Status:  &status,
		City:    &q.City,
		BestFor: &q.EventType,
	}
	if q.GuestCount > 0 {
		filters.CapacityAtLeast = &q.GuestCount
	}

	page := pagination.PageRequest{Page: 1, PageSize: seedLimit}
	result, err := o.venues.List(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, v := range result.Data {
		if q.Neighborhood != "" && v.Neighborhood != nil &&
			!looseContains(*v.Neighborhood, q.Neighborhood) {
			continue
		}
		names = append(names, v.Name)
	}

	return names, nil
}

// buildReport parses the loop answer into candidates, dropping malformed
// entries with a warning so the rest of the batch survives.
func (o *Orchestrator) buildReport(q Query, result *agentloop.Result) *Report {
	report := &Report{
		Query:   q,
		Outcome: result.Outcome,
		Steps:   result.Steps,
		Sources: result.Sources,
	}

	parsed, err := formatting.Parse[answer](result.Text)
	if err != nil {
		if result.Complete() {
			// Accept validated the answer; a parse failure here means the
			// runner contract was broken.
			report.Warnings = append(report.Warnings, fmt.Sprintf("unparseable answer: %v", err))
			return report
		}
		report.Warnings = append(report.Warnings,
			"agent budget exhausted before a structured answer was produced")
		return report
	}

	report.Notes = parsed.ResearchNotes

	for i, cand := range parsed.Venues {
		if !cand.Valid() {
			warning := fmt.Sprintf("dropped candidate %d: missing venue name", i+1)
			report.Warnings = append(report.Warnings, warning)
			o.logger.Warn("candidate dropped", "index", i+1)
			continue
		}

		if cand.City == "" {
			cand.City = q.City
		}
		if len(cand.BestFor) == 0 {
			cand.BestFor = []string{q.EventType}
		}
		cand.Confidence = venues.NormalizeConfidence(cand.Confidence)

		report.Candidates = append(report.Candidates, cand)
	}

	return report
}

func looseContains(haystack, needle string) bool {
	return strings.Contains(
		strings.ToLower(haystack),
		strings.ToLower(strings.TrimSpace(needle)),
	)
}
