package venues

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/scoutd/scout/pkg/query"
	"github.com/scoutd/scout/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "venues", "v").
	Project("id", "ID").
	Project("name", "Name").
	Project("address", "Address").
	Project("city", "City").
	Project("identity_key", "IdentityKey").
	Project("neighborhood", "Neighborhood").
	Project("venue_type", "VenueType").
	Project("website", "Website").
	Project("phone", "Phone").
	Project("email", "Email").
	Project("contact_name", "ContactName").
	Project("contact_title", "ContactTitle").
	Project("private_events_url", "PrivateEventsURL").
	Project("booking_form_url", "BookingFormURL").
	Project("price_range", "PriceRange").
	Project("estimated_cost", "EstimatedCost").
	Project("capacity_min", "CapacityMin").
	Project("capacity_max", "CapacityMax").
	Project("private_space", "PrivateSpace").
	Project("av_equipment", "AVEquipment").
	Project("outdoor_space", "OutdoorSpace").
	Project("cuisine_style", "CuisineStyle").
	Project("best_for", "BestFor").
	Project("highlights", "Highlights").
	Project("source_url", "SourceURL").
	Project("confidence", "Confidence").
	Project("status", "Status").
	Project("source_criteria", "SourceCriteria").
	Project("archive_reason", "ArchiveReason").
	Project("last_researched_at", "LastResearchedAt").
	Project("last_verified_at", "LastVerifiedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for venue queries.
// Nil fields are ignored. Status, City, VenueType, and Confidence use
// exact matching; Name and Neighborhood use case-insensitive contains
// matching; BestFor matches venues whose best_for array contains the
// given event type; CapacityAtLeast keeps venues whose capacity_max is
// at least the given guest count.
type Filters struct {
	Status          *string `json:"status,omitempty"`
	City            *string `json:"city,omitempty"`
	Name            *string `json:"name,omitempty"`
	Neighborhood    *string `json:"neighborhood,omitempty"`
	VenueType       *string `json:"venue_type,omitempty"`
	BestFor         *string `json:"best_for,omitempty"`
	Confidence      *string `json:"confidence,omitempty"`
	CapacityAtLeast *int    `json:"capacity_at_least,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Status", f.Status).
		WhereEquals("City", f.City).
		WhereContains("Name", f.Name).
		WhereContains("Neighborhood", f.Neighborhood).
		WhereEquals("VenueType", f.VenueType).
		WhereEquals("Confidence", f.Confidence).
		WhereAtLeast("CapacityMax", f.CapacityAtLeast)

	if f.BestFor != nil && *f.BestFor != "" {
		if raw, err := json.Marshal([]string{*f.BestFor}); err == nil {
			value := string(raw)
			b.WhereJSONContains("BestFor", &value)
		}
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if c := values.Get("city"); c != "" {
		f.City = &c
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if nb := values.Get("neighborhood"); nb != "" {
		f.Neighborhood = &nb
	}

	if vt := values.Get("venue_type"); vt != "" {
		f.VenueType = &vt
	}

	if bf := values.Get("best_for"); bf != "" {
		f.BestFor = &bf
	}

	if co := values.Get("confidence"); co != "" {
		f.Confidence = &co
	}

	if raw := values.Get("capacity_at_least"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			f.CapacityAtLeast = &v
		}
	}

	return f
}

func scanVenue(s repository.Scanner) (Venue, error) {
	var (
		v       Venue
		bestFor []byte
	)

	err := s.Scan(
		&v.ID,
		&v.Name,
		&v.Address,
		&v.City,
		&v.IdentityKey,
		&v.Neighborhood,
		&v.VenueType,
		&v.Website,
		&v.Phone,
		&v.Email,
		&v.ContactName,
		&v.ContactTitle,
		&v.PrivateEventsURL,
		&v.BookingFormURL,
		&v.PriceRange,
		&v.EstimatedCost,
		&v.CapacityMin,
		&v.CapacityMax,
		&v.PrivateSpace,
		&v.AVEquipment,
		&v.OutdoorSpace,
		&v.CuisineStyle,
		&bestFor,
		&v.Highlights,
		&v.SourceURL,
		&v.Confidence,
		&v.Status,
		&v.SourceCriteria,
		&v.ArchiveReason,
		&v.LastResearchedAt,
		&v.LastVerifiedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return v, err
	}

	if len(bestFor) > 0 {
		if err := json.Unmarshal(bestFor, &v.BestFor); err != nil {
			return v, err
		}
	}

	return v, nil
}

func marshalBestFor(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
