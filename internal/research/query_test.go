package research_test

import (
	"testing"

	"github.com/scoutd/scout/internal/research"
)

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name  string
		query research.Query
		want  error
	}{
		{"valid", research.Query{EventType: research.EventDinner, City: "New York"}, nil},
		{"missing city", research.Query{EventType: research.EventDinner}, research.ErrInvalidQuery},
		{"blank city", research.Query{EventType: research.EventDinner, City: "  "}, research.ErrInvalidQuery},
		{"unknown event type", research.Query{EventType: "gala", City: "New York"}, research.ErrInvalidEventType},
		{"missing event type", research.Query{City: "New York"}, research.ErrInvalidEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidEventType(t *testing.T) {
	for _, valid := range []string{research.EventDinner, research.EventHappyHour, research.EventWorkshop} {
		if !research.ValidEventType(valid) {
			t.Errorf("ValidEventType(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "gala", "Dinner"} {
		if research.ValidEventType(invalid) {
			t.Errorf("ValidEventType(%q) = true, want false", invalid)
		}
	}
}

func TestQueryCriteria(t *testing.T) {
	tests := []struct {
		name  string
		query research.Query
		want  string
	}{
		{
			"minimal",
			research.Query{EventType: "dinner", City: "New York"},
			"dinner / New York",
		},
		{
			"full",
			research.Query{EventType: "happy_hour", City: "New York", Neighborhood: "SoHo", Vibe: "casual"},
			"happy_hour / New York / SoHo / casual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Criteria(); got != tt.want {
				t.Errorf("Criteria() = %q, want %q", got, tt.want)
			}
		})
	}
}
