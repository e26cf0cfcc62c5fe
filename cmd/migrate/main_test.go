package main

import (
	"strings"
	"testing"
)

// The venues model carries optional detail fields as pointers and writes
// NULL for absent values, so the schema must leave those columns nullable.
func TestVenuesMigrationOptionalColumnsNullable(t *testing.T) {
	data, err := migrations.ReadFile("migrations/000001_venues.up.sql")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	schema := string(data)

	optional := []string{
		"neighborhood",
		"venue_type",
		"website",
		"phone",
		"email",
		"contact_name",
		"contact_title",
		"private_events_url",
		"booking_form_url",
		"price_range",
		"estimated_cost",
		"cuisine_style",
		"highlights",
		"source_url",
		"source_criteria",
		"archive_reason",
	}

	for _, line := range strings.Split(schema, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, col := range optional {
			if strings.HasPrefix(trimmed, col+" ") && strings.Contains(trimmed, "NOT NULL") {
				t.Errorf("column %s declared NOT NULL, want nullable", col)
			}
		}
	}
}
