package venues_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/scoutd/scout/internal/identity"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/internal/venues/venuestest"
)

func ptr[T any](v T) *T { return &v }

func TestValidStatus(t *testing.T) {
	for _, valid := range []string{venues.StatusActive, venues.StatusNeedsReview, venues.StatusArchived} {
		if !venues.ValidStatus(valid) {
			t.Errorf("ValidStatus(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "open", "Active"} {
		if venues.ValidStatus(invalid) {
			t.Errorf("ValidStatus(%q) = true, want false", invalid)
		}
	}
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"high", venues.ConfidenceHigh},
		{"HIGH", venues.ConfidenceHigh},
		{" low ", venues.ConfidenceLow},
		{"medium", venues.ConfidenceMedium},
		{"", venues.ConfidenceMedium},
		{"certain", venues.ConfidenceMedium},
	}

	for _, tt := range tests {
		if got := venues.NormalizeConfidence(tt.input); got != tt.want {
			t.Errorf("NormalizeConfidence(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCreateCommandValidate(t *testing.T) {
	t.Run("requires name and city", func(t *testing.T) {
		tests := []struct {
			name string
			cmd  venues.CreateCommand
		}{
			{"missing name", venues.CreateCommand{City: "New York"}},
			{"missing city", venues.CreateCommand{Name: "The Wren"}},
			{"blank name", venues.CreateCommand{Name: "  ", City: "New York"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.cmd.Validate(); err != venues.ErrInvalidVenue {
					t.Errorf("Validate() = %v, want ErrInvalidVenue", err)
				}
			})
		}
	})

	t.Run("defaults status and confidence", func(t *testing.T) {
		cmd := venues.CreateCommand{Name: "The Wren", City: "New York"}
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
		if cmd.Status != venues.StatusActive {
			t.Errorf("Status = %q, want active", cmd.Status)
		}
		if cmd.Confidence != venues.ConfidenceMedium {
			t.Errorf("Confidence = %q, want medium", cmd.Confidence)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		cmd := venues.CreateCommand{Name: "The Wren", City: "New York", Status: "open"}
		if err := cmd.Validate(); err != venues.ErrInvalidStatus {
			t.Errorf("Validate() = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestUpdateCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  venues.UpdateCommand
		want error
	}{
		{"empty patch", venues.UpdateCommand{}, venues.ErrInvalidUpdate},
		{"unknown status", venues.UpdateCommand{Status: ptr("open")}, venues.ErrInvalidStatus},
		{"field change", venues.UpdateCommand{Phone: ptr("(212) 555-0144")}, nil},
		{"timestamp mark only", venues.UpdateCommand{MarkVerified: true}, nil},
		{"best_for only", venues.UpdateCommand{BestFor: []string{"dinner"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVenueRef(t *testing.T) {
	v := venues.Venue{Name: "The Wren", Address: "344 Bowery"}
	ref := v.Ref()

	if ref.Name != v.Name || ref.Address != v.Address {
		t.Errorf("Ref() = %+v, want name and address carried", ref)
	}
	if v.Identity().Key() != identity.Key("The Wren", "344 Bowery") {
		t.Errorf("Identity().Key() = %q", v.Identity().Key())
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", venues.ErrNotFound, http.StatusNotFound},
		{"duplicate", venues.ErrDuplicate, http.StatusConflict},
		{"archived", venues.ErrArchived, http.StatusConflict},
		{"not archived", venues.ErrNotArchived, http.StatusConflict},
		{"invalid venue", venues.ErrInvalidVenue, http.StatusBadRequest},
		{"empty update", venues.ErrInvalidUpdate, http.StatusBadRequest},
		{"archive reason", venues.ErrArchiveReason, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", venues.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := venues.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":            {"active"},
			"city":              {"New York"},
			"name":              {"wren"},
			"neighborhood":      {"NoHo"},
			"venue_type":        {"cocktail bar"},
			"best_for":          {"happy_hour"},
			"confidence":        {"high"},
			"capacity_at_least": {"40"},
		}

		f := venues.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "active" {
			t.Errorf("Status = %v, want active", f.Status)
		}
		if f.City == nil || *f.City != "New York" {
			t.Errorf("City = %v, want New York", f.City)
		}
		if f.Name == nil || *f.Name != "wren" {
			t.Errorf("Name = %v, want wren", f.Name)
		}
		if f.Neighborhood == nil || *f.Neighborhood != "NoHo" {
			t.Errorf("Neighborhood = %v, want NoHo", f.Neighborhood)
		}
		if f.VenueType == nil || *f.VenueType != "cocktail bar" {
			t.Errorf("VenueType = %v, want cocktail bar", f.VenueType)
		}
		if f.BestFor == nil || *f.BestFor != "happy_hour" {
			t.Errorf("BestFor = %v, want happy_hour", f.BestFor)
		}
		if f.Confidence == nil || *f.Confidence != "high" {
			t.Errorf("Confidence = %v, want high", f.Confidence)
		}
		if f.CapacityAtLeast == nil || *f.CapacityAtLeast != 40 {
			t.Errorf("CapacityAtLeast = %v, want 40", f.CapacityAtLeast)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := venues.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.City != nil || f.Name != nil || f.BestFor != nil {
			t.Errorf("Filters = %+v, want all nil", f)
		}
		if f.CapacityAtLeast != nil {
			t.Errorf("CapacityAtLeast = %v, want nil", f.CapacityAtLeast)
		}
	})

	t.Run("non-numeric capacity ignored", func(t *testing.T) {
		f := venues.FiltersFromQuery(url.Values{"capacity_at_least": {"many"}})
		if f.CapacityAtLeast != nil {
			t.Errorf("CapacityAtLeast = %v, want nil", f.CapacityAtLeast)
		}
	})
}

func TestUpdateRejectsStatusChangeOutOfArchived(t *testing.T) {
	registry := venuestest.NewRegistry()
	seeded := registry.Seed(venues.Venue{
		Name:          "The Wren",
		Address:       "344 Bowery",
		City:          "New York",
		Status:        venues.StatusArchived,
		ArchiveReason: ptr("permanently closed"),
	})

	_, err := registry.Update(context.Background(), seeded.ID, venues.UpdateCommand{
		Status: ptr(venues.StatusActive),
	})
	if !errors.Is(err, venues.ErrArchived) {
		t.Fatalf("Update returned %v, want ErrArchived", err)
	}

	got, _ := registry.Get(seeded.ID)
	if got.Status != venues.StatusArchived {
		t.Errorf("Status = %q, want archived", got.Status)
	}

	reactivated, err := registry.Reactivate(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Reactivate failed: %v", err)
	}
	if reactivated.Status != venues.StatusActive {
		t.Errorf("Status = %q, want active", reactivated.Status)
	}
	if reactivated.ArchiveReason != nil {
		t.Errorf("ArchiveReason = %q, want nil", *reactivated.ArchiveReason)
	}
}
