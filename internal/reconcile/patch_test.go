package reconcile_test

import (
	"testing"

	"github.com/scoutd/scout/internal/reconcile"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
)

func TestBuildPatchFillsEmptyFields(t *testing.T) {
	existing := venues.Venue{Name: "The Wren", Address: "344 Bowery", City: "New York"}
	cand := research.Candidate{
		Name:        "The Wren",
		Address:     "344 Bowery",
		City:        "New York",
		Website:     ptr("https://thewrennyc.com"),
		Phone:       ptr("(212) 555-0144"),
		CapacityMax: ptr(80),
	}

	cmd := reconcile.BuildPatch(existing, cand, false)

	if cmd.Website == nil || *cmd.Website != "https://thewrennyc.com" {
		t.Errorf("Website = %v, want fill", cmd.Website)
	}
	if cmd.Phone == nil || *cmd.Phone != "(212) 555-0144" {
		t.Errorf("Phone = %v, want fill", cmd.Phone)
	}
	if cmd.CapacityMax == nil || *cmd.CapacityMax != 80 {
		t.Errorf("CapacityMax = %v, want 80", cmd.CapacityMax)
	}
}

func TestBuildPatchAdditiveNeverReplaces(t *testing.T) {
	existing := venues.Venue{
		Name:        "The Wren",
		Address:     "344 Bowery",
		City:        "New York",
		Website:     ptr("https://thewrennyc.com"),
		CapacityMax: ptr(100),
	}
	cand := research.Candidate{
		Name:        "The Wren",
		Address:     "344 Bowery",
		Website:     ptr("https://aggregator.example.com/wren"),
		CapacityMax: ptr(80),
	}

	cmd := reconcile.BuildPatch(existing, cand, false)

	if cmd.Website != nil {
		t.Errorf("Website = %v, additive mode must not replace", cmd.Website)
	}
	if cmd.CapacityMax != nil {
		t.Errorf("CapacityMax = %v, additive mode must not replace", cmd.CapacityMax)
	}
	if cmd.Name != nil || cmd.Address != nil || cmd.City != nil {
		t.Error("identity fields must never change in additive mode")
	}
}

func TestBuildPatchCorrectionReplaces(t *testing.T) {
	existing := venues.Venue{
		Name:    "The Wren",
		Address: "344 Bowery",
		City:    "New York",
		Phone:   ptr("(212) 555-0100"),
	}
	cand := research.Candidate{
		Name:    "The Wren",
		Address: "346 Bowery",
		Phone:   ptr("(212) 555-0144"),
	}

	cmd := reconcile.BuildPatch(existing, cand, true)

	if cmd.Address == nil || *cmd.Address != "346 Bowery" {
		t.Errorf("Address = %v, correction mode should replace", cmd.Address)
	}
	if cmd.Phone == nil || *cmd.Phone != "(212) 555-0144" {
		t.Errorf("Phone = %v, correction mode should replace", cmd.Phone)
	}
	if cmd.Name != nil {
		t.Errorf("Name = %v, equal values must not patch", cmd.Name)
	}
}

func TestBuildPatchEmptyIncomingNeverClobbers(t *testing.T) {
	existing := venues.Venue{
		Name:    "The Wren",
		Address: "344 Bowery",
		City:    "New York",
		Website: ptr("https://thewrennyc.com"),
	}
	cand := research.Candidate{
		Name:    "The Wren",
		Website: ptr(""),
	}

	for _, correction := range []bool{false, true} {
		cmd := reconcile.BuildPatch(existing, cand, correction)
		if cmd.Website != nil {
			t.Errorf("correction=%v: Website = %v, empty incoming must not clobber",
				correction, cmd.Website)
		}
		if cmd.Address != nil {
			t.Errorf("correction=%v: Address = %v, empty incoming must not clobber",
				correction, cmd.Address)
		}
	}
}

func TestBuildPatchFlags(t *testing.T) {
	tests := []struct {
		name       string
		existing   bool
		incoming   *bool
		correction bool
		want       *bool
	}{
		{"raises additively", false, ptr(true), false, ptr(true)},
		{"never lowers additively", true, ptr(false), false, nil},
		{"lowers in correction mode", true, ptr(false), true, ptr(false)},
		{"nil incoming is no-op", true, nil, true, nil},
		{"equal incoming is no-op", true, ptr(true), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := venues.Venue{Name: "x", PrivateSpace: tt.existing}
			cand := research.Candidate{Name: "x", PrivateSpace: tt.incoming}

			cmd := reconcile.BuildPatch(existing, cand, tt.correction)

			switch {
			case tt.want == nil && cmd.PrivateSpace != nil:
				t.Errorf("PrivateSpace = %v, want nil", *cmd.PrivateSpace)
			case tt.want != nil && (cmd.PrivateSpace == nil || *cmd.PrivateSpace != *tt.want):
				t.Errorf("PrivateSpace = %v, want %v", cmd.PrivateSpace, *tt.want)
			}
		})
	}
}

func TestBuildPatchBestForUnion(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		incoming []string
		want     []string
	}{
		{"adds new entries", []string{"dinner"}, []string{"happy_hour"}, []string{"dinner", "happy_hour"}},
		{"preserves order", []string{"dinner", "workshop"}, []string{"happy_hour", "dinner"}, []string{"dinner", "workshop", "happy_hour"}},
		{"no change yields nil", []string{"dinner"}, []string{"dinner"}, nil},
		{"empty incoming yields nil", []string{"dinner"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := venues.Venue{Name: "x", BestFor: tt.existing}
			cand := research.Candidate{Name: "x", BestFor: tt.incoming}

			cmd := reconcile.BuildPatch(existing, cand, false)

			if len(cmd.BestFor) != len(tt.want) {
				t.Fatalf("BestFor = %v, want %v", cmd.BestFor, tt.want)
			}
			for i := range tt.want {
				if cmd.BestFor[i] != tt.want[i] {
					t.Errorf("BestFor = %v, want %v", cmd.BestFor, tt.want)
					break
				}
			}
		})
	}
}

func TestBuildPatchConfidence(t *testing.T) {
	tests := []struct {
		name       string
		existing   string
		incoming   string
		correction bool
		want       *string
	}{
		{"fills empty", "", "high", false, ptr("high")},
		{"additive keeps existing", "medium", "high", false, nil},
		{"correction replaces", "medium", "high", true, ptr("high")},
		{"equal is no-op", "high", "high", true, nil},
		{"unknown normalizes to medium", "", "certain", false, ptr("medium")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := venues.Venue{Name: "x", Confidence: tt.existing}
			cand := research.Candidate{Name: "x", Confidence: tt.incoming}

			cmd := reconcile.BuildPatch(existing, cand, tt.correction)

			switch {
			case tt.want == nil && cmd.Confidence != nil:
				t.Errorf("Confidence = %v, want nil", *cmd.Confidence)
			case tt.want != nil && (cmd.Confidence == nil || *cmd.Confidence != *tt.want):
				t.Errorf("Confidence = %v, want %v", cmd.Confidence, *tt.want)
			}
		})
	}
}
