package health

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scoutd/scout/internal/agentloop"
	"github.com/scoutd/scout/internal/reconcile"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/pkg/formatting"
)

const healthSystem = `You are a venue verification agent. Your job is to check if a venue is still open and active by searching the web. Be thorough but concise.`

// checkAnswer is the JSON document the verification agent returns.
type checkAnswer struct {
	Status      string              `json:"status"`
	Details     string              `json:"details,omitempty"`
	UpdatedInfo *research.Candidate `json:"updated_info,omitempty"`
}

// Engine revalidates the stalest active venues concurrently up to a cap.
type Engine struct {
	runner      agentloop.Runner
	venues      venues.System
	logger      *slog.Logger
	concurrency int
}

// New creates a health-check engine. concurrency caps parallel checks
// and falls back to 1 when non-positive.
func New(runner agentloop.Runner, sys venues.System, logger *slog.Logger, concurrency int) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		runner:      runner,
		venues:      sys,
		logger:      logger.With("system", "health"),
		concurrency: concurrency,
	}
}

// Revalidate checks up to limit active venues, least recently verified
// first. Venue records not checked this round keep their position in the
// staleness order for the next one.
func (e *Engine) Revalidate(ctx context.Context, limit int) (*Summary, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	started := time.Now()

	records, err := e.venues.StalestActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load stale venues: %w", err)
	}

	records = stalestFirst(records, limit)

	summary := &Summary{Checked: len(records)}
	results := make([]Result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range records {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			result, err := e.check(gctx, records[i])
			if err != nil {
				return fmt.Errorf("check %q: %w", records[i].Name, err)
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, result := range results {
		summary.Results = append(summary.Results, result)
		switch result.Status {
		case StatusConfirmed:
			summary.Confirmed = append(summary.Confirmed, result.VenueID)
		case StatusCorrected:
			summary.Corrected = append(summary.Corrected, result.VenueID)
		case StatusClosed:
			summary.Closed = append(summary.Closed, result.VenueID)
		default:
			summary.Inconclusive = append(summary.Inconclusive, result.VenueID)
		}
	}

	summary.Elapsed = time.Since(started)

	e.logger.Info(
		"revalidation complete",
		"checked", summary.Checked,
		"confirmed", len(summary.Confirmed),
		"corrected", len(summary.Corrected),
		"closed", len(summary.Closed),
		"inconclusive", len(summary.Inconclusive),
		"elapsed", summary.Elapsed,
	)

	return summary, nil
}

// check runs the targeted agent loop for one venue and applies the
// resulting mutation. Inconclusive evidence mutates nothing.
func (e *Engine) check(ctx context.Context, record venues.Venue) (Result, error) {
	loop, err := e.runner.Run(ctx, agentloop.Request{
		System: healthSystem,
		Prompt: checkPrompt(record),
		Accept: acceptCheck,
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{
		VenueID: record.ID,
		Name:    record.Name,
		Status:  StatusInconclusive,
		Sources: loop.Sources,
	}

	if !loop.Complete() {
		result.Evidence = "verification budget exhausted without a definitive answer"
		e.logger.Warn("health check inconclusive", "id", record.ID, "name", record.Name)
		return result, nil
	}

	answer, err := parseCheck(loop.Text)
	if err != nil {
		result.Evidence = fmt.Sprintf("unparseable verification answer: %v", err)
		return result, nil
	}

	result.Evidence = answer.Details

	switch answer.Status {
	case "closed":
		reason := answer.Details
		if strings.TrimSpace(reason) == "" {
			reason = "reported permanently closed by web verification"
		}
		if _, err := e.venues.Archive(ctx, record.ID, reason); err != nil {
			return Result{}, err
		}
		result.Status = StatusClosed

	case "active":
		cmd := venues.UpdateCommand{MarkVerified: true}
		result.Status = StatusConfirmed

		if answer.UpdatedInfo != nil {
			cmd = reconcile.BuildPatch(record, *answer.UpdatedInfo, true)
			cmd.MarkVerified = true
			if corrects(cmd) {
				result.Status = StatusCorrected
			}
		}

		if _, err := e.venues.Update(ctx, record.ID, cmd); err != nil {
			return Result{}, err
		}

	default:
		e.logger.Warn(
			"health check inconclusive",
			"id", record.ID,
			"name", record.Name,
			"details", answer.Details,
		)
	}

	return result, nil
}

func checkPrompt(v venues.Venue) string {
	var sb strings.Builder

	sb.WriteString("Check if this venue is still open and active:\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", v.Name)
	fmt.Fprintf(&sb, "Address: %s\n", v.Address)
	fmt.Fprintf(&sb, "City: %s\n", v.City)
	if v.Website != nil && *v.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", *v.Website)
	}

	sb.WriteString(`
Search for this venue and determine:
1. Is it still open/active? Check for permanent closure notices, Google Maps status, recent reviews, social media activity.
2. Has any key info changed? New phone, new website, new address.

Return a JSON object:
{
  "status": "active" or "closed" or "uncertain",
  "details": "Brief explanation of what you found",
  "updated_info": {
    "phone": "new phone if changed",
    "website": "new website if changed",
    "email": "new email if found"
  }
}

Only include fields in updated_info if you found NEW or CORRECTED information. If nothing changed, set updated_info to null.
Return ONLY the JSON object.`)

	return sb.String()
}

func acceptCheck(text string) error {
	answer, err := parseCheck(text)
	if err != nil {
		return err
	}
	switch answer.Status {
	case "active", "closed", "uncertain":
		return nil
	}
	return fmt.Errorf("status must be active, closed, or uncertain, got %q", answer.Status)
}

func parseCheck(text string) (checkAnswer, error) {
	return formatting.Parse[checkAnswer](text)
}

// corrects reports whether a patch changes anything beyond timestamps.
func corrects(cmd venues.UpdateCommand) bool {
	cmd.MarkVerified = false
	cmd.MarkResearched = false
	return cmd.HasChanges()
}

// stalestFirst orders records by last_verified_at ascending with
// never-verified records first, then truncates to limit. The registry
// already orders its result; this keeps the contract independent of the
// store implementation.
func stalestFirst(records []venues.Venue, limit int) []venues.Venue {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].LastVerifiedAt, records[j].LastVerifiedAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
