// Package outreach implements contact enrichment: a narrow agent loop
// that finds the private-events contact for a single venue and merges it
// into the record. Email drafting and message formatting are out of
// scope; enrichment ends at the registry.
package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/agentloop"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/pkg/formatting"
)

const enrichmentSystem = `You are a venue contact research specialist. Your job is to find the best contact information for reaching out to a venue about hosting a private event. Be thorough: search the venue's website, social media, event planning sites, and business directories to find the most direct contact for event inquiries.`

// enrichmentAnswer is the JSON document the enrichment agent returns.
type enrichmentAnswer struct {
	ContactName      *string `json:"contact_name"`
	ContactTitle     *string `json:"contact_title"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	PrivateEventsURL *string `json:"private_events_url"`
	BookingFormURL   *string `json:"booking_form_url"`
	EnrichmentNotes  string  `json:"enrichment_notes,omitempty"`
	Confidence       string  `json:"confidence,omitempty"`
}

// Report summarizes one enrichment run. Fields lists what the merge
// actually changed; an untouched record yields an empty list with
// outcome partial or a completed run that found nothing new.
type Report struct {
	VenueID    uuid.UUID          `json:"venue_id"`
	Name       string             `json:"name"`
	Fields     []string           `json:"fields"`
	Notes      string             `json:"notes,omitempty"`
	Confidence string             `json:"confidence,omitempty"`
	Outcome    string             `json:"outcome"`
	Sources    []agentloop.Source `json:"sources,omitempty"`
}

// Engine runs contact enrichment against single venues.
type Engine struct {
	runner agentloop.Runner
	venues venues.System
	logger *slog.Logger
}

// New creates an enrichment engine.
func New(runner agentloop.Runner, sys venues.System, logger *slog.Logger) *Engine {
	return &Engine{
		runner: runner,
		venues: sys,
		logger: logger.With("system", "outreach"),
	}
}

// Enrich finds events-contact details for one venue and merges them
// non-destructively: populated contact fields are kept, missing ones are
// filled. A successful merge advances last_researched_at.
func (e *Engine) Enrich(ctx context.Context, venueID uuid.UUID) (*Report, error) {
	record, err := e.venues.Find(ctx, venueID)
	if err != nil {
		return nil, err
	}

	loop, err := e.runner.Run(ctx, agentloop.Request{
		System: enrichmentSystem,
		Prompt: enrichmentPrompt(*record),
		Accept: func(text string) error {
			_, err := formatting.Parse[enrichmentAnswer](text)
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment agent: %w", err)
	}

	report := &Report{
		VenueID: record.ID,
		Name:    record.Name,
		Outcome: loop.Outcome,
		Sources: loop.Sources,
	}

	if !loop.Complete() {
		e.logger.Warn("enrichment budget exhausted", "id", record.ID, "name", record.Name)
		return report, nil
	}

	answer, err := formatting.Parse[enrichmentAnswer](loop.Text)
	if err != nil {
		return nil, fmt.Errorf("parse enrichment answer: %w", err)
	}

	report.Notes = answer.EnrichmentNotes
	report.Confidence = venues.NormalizeConfidence(answer.Confidence)

	cmd, fields := buildEnrichmentPatch(*record, answer)
	report.Fields = fields

	if len(fields) == 0 {
		e.logger.Info("enrichment found nothing new", "id", record.ID, "name", record.Name)
		return report, nil
	}

	cmd.MarkResearched = true
	if _, err := e.venues.Update(ctx, record.ID, cmd); err != nil {
		return nil, err
	}

	e.logger.Info(
		"venue enriched",
		"id", record.ID,
		"name", record.Name,
		"fields", fields,
	)

	return report, nil
}

func enrichmentPrompt(v venues.Venue) string {
	var sb strings.Builder

	sb.WriteString("Find the private events contact information for this venue:\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", v.Name)
	fmt.Fprintf(&sb, "Address: %s\n", v.Address)
	fmt.Fprintf(&sb, "City: %s\n", v.City)
	if v.Website != nil && *v.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", *v.Website)
	}

	sb.WriteString(`
Search for:
1. The name and title of the person who handles private events, catering, or group dining inquiries
2. A direct email address for event inquiries (events@, privateevents@, catering@, not generic info@)
3. A direct phone number or extension for events
4. The URL of their private events or private dining page
5. Any online booking or inquiry form URL

Search the venue's own website first, then check event planning sites, social media, and business directories.

Return a JSON object:
{
  "contact_name": "Name of events coordinator or null",
  "contact_title": "Their title or null",
  "email": "events email or null",
  "phone": "phone number or null",
  "private_events_url": "URL to their private events page or null",
  "booking_form_url": "URL to inquiry/booking form or null",
  "enrichment_notes": "Brief summary of what you found and source quality",
  "confidence": "high/medium/low"
}

Only include fields where you found actual information. Set others to null.
Return ONLY the JSON object.`)

	return sb.String()
}

// buildEnrichmentPatch fills contact fields the record is missing. It
// never replaces a populated field: enrichment is ordinary research
// data, not a health-check correction.
func buildEnrichmentPatch(v venues.Venue, answer enrichmentAnswer) (venues.UpdateCommand, []string) {
	var (
		cmd    venues.UpdateCommand
		fields []string
	)

	set := func(name string, existing *string, incoming *string, target **string) {
		if incoming == nil || strings.TrimSpace(*incoming) == "" {
			return
		}
		if existing != nil && *existing != "" {
			return
		}
		*target = incoming
		fields = append(fields, name)
	}

	set("contact_name", v.ContactName, answer.ContactName, &cmd.ContactName)
	set("contact_title", v.ContactTitle, answer.ContactTitle, &cmd.ContactTitle)
	set("email", v.Email, answer.Email, &cmd.Email)
	set("phone", v.Phone, answer.Phone, &cmd.Phone)
	set("private_events_url", v.PrivateEventsURL, answer.PrivateEventsURL, &cmd.PrivateEventsURL)
	set("booking_form_url", v.BookingFormURL, answer.BookingFormURL, &cmd.BookingFormURL)

	return cmd, fields
}
