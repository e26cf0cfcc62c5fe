// Package reconcile implements the reconciliation engine that folds
// venue candidates into the registry: create, merge, skip, reactivate,
// or flag for review, without ever producing duplicates.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/identity"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
)

// Engine reconciles research candidates against the venue registry.
// Candidates in a batch are processed sequentially; a per-identity-key
// mutex plus the registry's unique index close the race across
// concurrent invocations.
type Engine struct {
	venues venues.System
	policy identity.Policy
	logger *slog.Logger
	locks  *keyMutex
}

// Outcome summarizes a reconciliation batch. Every candidate lands in
// exactly one bucket; Warnings carry non-fatal drops and anomalies.
type Outcome struct {
	Created     []uuid.UUID `json:"created"`
	Updated     []uuid.UUID `json:"updated"`
	Reactivated []uuid.UUID `json:"reactivated"`
	Skipped     []uuid.UUID `json:"skipped"`
	Flagged     []uuid.UUID `json:"flagged"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// Total returns the number of candidates the batch resolved.
func (o *Outcome) Total() int {
	return len(o.Created) + len(o.Updated) + len(o.Reactivated) +
		len(o.Skipped) + len(o.Flagged)
}

// New creates a reconciliation engine.
func New(sys venues.System, policy identity.Policy, logger *slog.Logger) *Engine {
	return &Engine{
		venues: sys,
		policy: policy,
		logger: logger.With("system", "reconcile"),
		locks:  newKeyMutex(),
	}
}

// Reconcile folds a batch of candidates into the registry. criteria is
// recorded as provenance on records the batch creates. Registry failures
// abort the invocation; per-candidate ambiguity never does.
func (e *Engine) Reconcile(
	ctx context.Context,
	candidates []research.Candidate,
	criteria string,
) (*Outcome, error) {
	outcome := &Outcome{}

	for i, cand := range candidates {
		if !cand.Valid() {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("candidate %d: missing venue name", i+1))
			continue
		}

		if err := e.reconcileOne(ctx, cand, criteria, outcome); err != nil {
			return nil, fmt.Errorf("reconcile %q: %w", cand.Name, err)
		}
	}

	e.logger.Info(
		"reconciliation complete",
		"created", len(outcome.Created),
		"updated", len(outcome.Updated),
		"reactivated", len(outcome.Reactivated),
		"skipped", len(outcome.Skipped),
		"flagged", len(outcome.Flagged),
	)

	return outcome, nil
}

func (e *Engine) reconcileOne(
	ctx context.Context,
	cand research.Candidate,
	criteria string,
	outcome *Outcome,
) error {
	key := identity.Key(cand.Name, cand.Address)
	unlock := e.locks.lock(key)
	defer unlock()

	match, record, err := e.match(ctx, cand)
	if err != nil {
		return err
	}

	switch {
	case match.Kind == identity.NoMatch:
		return e.create(ctx, cand, criteria, venues.StatusActive, outcome)

	case record.Status == venues.StatusArchived:
		return e.resolveArchived(ctx, cand, *record, outcome)

	case match.AutoMerge(e.policy):
		return e.merge(ctx, cand, *record, outcome)

	default:
		return e.flag(ctx, cand, criteria, *record, match.Score, outcome)
	}
}

// match loads the candidate's neighborhood of the registry and scores it.
func (e *Engine) match(
	ctx context.Context,
	cand research.Candidate,
) (identity.Result, *venues.Venue, error) {
	records, err := e.venues.MatchCandidates(ctx, cand.City, cand.Name)
	if err != nil {
		return identity.Result{}, nil, err
	}

	refs := make([]identity.Ref, len(records))
	for i, r := range records {
		refs[i] = r.Ref()
	}

	result := identity.Match(cand.Identity(), refs, e.policy)
	if result.Kind == identity.NoMatch {
		return result, nil, nil
	}

	for i := range records {
		if records[i].ID == result.Ref.ID {
			return result, &records[i], nil
		}
	}

	return identity.Result{}, nil, fmt.Errorf("matched record %s not in candidate set", result.Ref.ID)
}

// create registers the candidate as a new record. A unique-constraint
// conflict means another invocation created the record between match and
// insert; re-match once and merge into it.
func (e *Engine) create(
	ctx context.Context,
	cand research.Candidate,
	criteria, status string,
	outcome *Outcome,
) error {
	created, err := e.venues.Create(ctx, createCommand(cand, criteria, status))
	if err == nil {
		if status == venues.StatusNeedsReview {
			outcome.Flagged = append(outcome.Flagged, created.ID)
		} else {
			outcome.Created = append(outcome.Created, created.ID)
		}
		return nil
	}

	if !errors.Is(err, venues.ErrDuplicate) {
		return err
	}

	match, record, err := e.match(ctx, cand)
	if err != nil {
		return err
	}
	if match.Kind == identity.NoMatch || record == nil {
		return fmt.Errorf("duplicate key for %q but no match on retry", cand.Name)
	}

	if record.Status == venues.StatusArchived {
		return e.resolveArchived(ctx, cand, *record, outcome)
	}
	return e.merge(ctx, cand, *record, outcome)
}

// merge folds the candidate additively into an existing record and
// advances last_researched_at.
func (e *Engine) merge(
	ctx context.Context,
	cand research.Candidate,
	record venues.Venue,
	outcome *Outcome,
) error {
	cmd := BuildPatch(record, cand, false)
	cmd.MarkResearched = true

	updated, err := e.venues.Update(ctx, record.ID, cmd)
	if err != nil {
		return err
	}

	outcome.Updated = append(outcome.Updated, updated.ID)
	e.logger.Debug("candidate merged", "id", updated.ID, "name", updated.Name)
	return nil
}

// resolveArchived honors archive irreversibility: only explicit evidence
// that the venue is operating again reactivates it, anything else is a
// skip.
func (e *Engine) resolveArchived(
	ctx context.Context,
	cand research.Candidate,
	record venues.Venue,
	outcome *Outcome,
) error {
	if !cand.ReportedActive {
		outcome.Skipped = append(outcome.Skipped, record.ID)
		e.logger.Debug("archived match skipped", "id", record.ID, "name", record.Name)
		return nil
	}

	reactivated, err := e.venues.Reactivate(ctx, record.ID)
	if err != nil {
		return err
	}

	cmd := BuildPatch(*reactivated, cand, false)
	cmd.MarkResearched = true
	if _, err := e.venues.Update(ctx, reactivated.ID, cmd); err != nil {
		return err
	}

	outcome.Reactivated = append(outcome.Reactivated, reactivated.ID)
	e.logger.Info("venue reactivated on evidence", "id", reactivated.ID, "name", record.Name)
	return nil
}

// flag records an ambiguous candidate as a separate needs_review entry
// rather than guessing at a merge. A rerun of the same candidate
// exact-matches the flagged record, keeping the batch idempotent.
func (e *Engine) flag(
	ctx context.Context,
	cand research.Candidate,
	criteria string,
	similar venues.Venue,
	score float64,
	outcome *Outcome,
) error {
	e.logger.Info(
		"ambiguous match flagged for review",
		"candidate", cand.Name,
		"similar_to", similar.Name,
		"similar_id", similar.ID,
		"score", score,
	)

	note := fmt.Sprintf("possible duplicate of %s (%s), score %.2f", similar.Name, similar.ID, score)
	outcome.Warnings = append(outcome.Warnings, note)

	return e.create(ctx, cand, criteria, venues.StatusNeedsReview, outcome)
}

func createCommand(cand research.Candidate, criteria, status string) venues.CreateCommand {
	cmd := venues.CreateCommand{
		Name:           cand.Name,
		Address:        cand.Address,
		City:           cand.City,
		Neighborhood:   optional(cand.Neighborhood),
		VenueType:      optional(cand.VenueType),
		Website:        cand.Website,
		Phone:          cand.Phone,
		Email:          cand.Email,
		ContactName:    cand.ContactName,
		PriceRange:     cand.PriceRange,
		EstimatedCost:  cand.EstimatedCost,
		CapacityMin:    cand.CapacityMin,
		CapacityMax:    cand.CapacityMax,
		CuisineStyle:   cand.CuisineStyle,
		BestFor:        cand.BestFor,
		Highlights:     cand.Highlights,
		SourceURL:      cand.SourceURL,
		Confidence:     cand.Confidence,
		Status:         status,
		SourceCriteria: optional(criteria),
	}

	if cand.PrivateSpace != nil {
		cmd.PrivateSpace = *cand.PrivateSpace
	}
	if cand.AVAvailable != nil {
		cmd.AVEquipment = *cand.AVAvailable
	}
	if cand.OutdoorSpace != nil {
		cmd.OutdoorSpace = *cand.OutdoorSpace
	}

	return cmd
}
