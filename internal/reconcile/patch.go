package reconcile

import (
	"slices"
	"strings"

	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
)

// BuildPatch computes the non-destructive merge of a candidate into an
// existing record. Additive mode only fills fields the record is missing;
// correction mode (health-check evidence) also replaces populated fields
// the candidate contradicts. An empty candidate field never clobbers a
// populated one in either mode.
func BuildPatch(existing venues.Venue, cand research.Candidate, correction bool) venues.UpdateCommand {
	var cmd venues.UpdateCommand

	if correction {
		if v := strings.TrimSpace(cand.Name); v != "" && v != existing.Name {
			cmd.Name = &v
		}
		if v := strings.TrimSpace(cand.Address); v != "" && v != existing.Address {
			cmd.Address = &v
		}
		if v := strings.TrimSpace(cand.City); v != "" && v != existing.City {
			cmd.City = &v
		}
	}

	cmd.Neighborhood = mergeText(existing.Neighborhood, optional(cand.Neighborhood), correction)
	cmd.VenueType = mergeText(existing.VenueType, optional(cand.VenueType), correction)
	cmd.Website = mergeText(existing.Website, cand.Website, correction)
	cmd.Phone = mergeText(existing.Phone, cand.Phone, correction)
	cmd.Email = mergeText(existing.Email, cand.Email, correction)
	cmd.ContactName = mergeText(existing.ContactName, cand.ContactName, correction)
	cmd.PriceRange = mergeText(existing.PriceRange, cand.PriceRange, correction)
	cmd.EstimatedCost = mergeText(existing.EstimatedCost, cand.EstimatedCost, correction)
	cmd.CuisineStyle = mergeText(existing.CuisineStyle, cand.CuisineStyle, correction)
	cmd.Highlights = mergeText(existing.Highlights, cand.Highlights, correction)
	cmd.SourceURL = mergeText(existing.SourceURL, cand.SourceURL, correction)

	cmd.CapacityMin = mergeInt(existing.CapacityMin, cand.CapacityMin, correction)
	cmd.CapacityMax = mergeInt(existing.CapacityMax, cand.CapacityMax, correction)

	cmd.PrivateSpace = mergeFlag(existing.PrivateSpace, cand.PrivateSpace, correction)
	cmd.AVEquipment = mergeFlag(existing.AVEquipment, cand.AVAvailable, correction)
	cmd.OutdoorSpace = mergeFlag(existing.OutdoorSpace, cand.OutdoorSpace, correction)

	if union := mergeBestFor(existing.BestFor, cand.BestFor); union != nil {
		cmd.BestFor = union
	}

	if cand.Confidence != "" {
		conf := venues.NormalizeConfidence(cand.Confidence)
		if conf != existing.Confidence && (correction || existing.Confidence == "") {
			cmd.Confidence = &conf
		}
	}

	return cmd
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// mergeText fills an empty field, or replaces a differing one in
// correction mode. Nil means no change.
func mergeText(existing, incoming *string, correction bool) *string {
	if incoming == nil || strings.TrimSpace(*incoming) == "" {
		return nil
	}
	if existing != nil && *existing != "" {
		if !correction || *existing == *incoming {
			return nil
		}
	}
	return incoming
}

func mergeInt(existing, incoming *int, correction bool) *int {
	if incoming == nil {
		return nil
	}
	if existing != nil {
		if !correction || *existing == *incoming {
			return nil
		}
	}
	return incoming
}

// mergeFlag only raises a flag additively; correction mode may also
// lower one.
func mergeFlag(existing bool, incoming *bool, correction bool) *bool {
	if incoming == nil || *incoming == existing {
		return nil
	}
	if !correction && !*incoming {
		return nil
	}
	return incoming
}

// mergeBestFor unions the event types, preserving existing order. Nil
// means no change.
func mergeBestFor(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return nil
	}

	union := slices.Clone(existing)
	for _, v := range incoming {
		if v != "" && !slices.Contains(union, v) {
			union = append(union, v)
		}
	}

	if len(union) == len(existing) {
		return nil
	}
	return union
}
