// Package research implements the venue research orchestrator. It seeds
// a search-grounded agent loop with the event brief and known venues,
// then parses the structured answer into venue candidates for
// reconciliation.
package research

import (
	"strings"
)

// Supported event types.
const (
	EventDinner    = "dinner"
	EventHappyHour = "happy_hour"
	EventWorkshop  = "workshop"
)

// ValidEventType reports whether s is a recognized event type.
func ValidEventType(s string) bool {
	switch s {
	case EventDinner, EventHappyHour, EventWorkshop:
		return true
	}
	return false
}

// Query is the event brief driving a research run. EventType and City
// are required; everything else narrows the search.
type Query struct {
	EventType    string   `json:"event_type"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	GuestCount   int      `json:"guest_count,omitempty"`
	Vibe         string   `json:"vibe,omitempty"`
	Audience     string   `json:"audience,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	DateRange    string   `json:"date_range,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Validate checks required fields and the event type.
func (q Query) Validate() error {
	if strings.TrimSpace(q.City) == "" {
		return ErrInvalidQuery
	}
	if !ValidEventType(q.EventType) {
		return ErrInvalidEventType
	}
	return nil
}

// Criteria returns a short description of the brief used as provenance
// on records created from this run.
func (q Query) Criteria() string {
	parts := []string{q.EventType, q.City}
	if q.Neighborhood != "" {
		parts = append(parts, q.Neighborhood)
	}
	if q.Vibe != "" {
		parts = append(parts, q.Vibe)
	}
	return strings.Join(parts, " / ")
}
