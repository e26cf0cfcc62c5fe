// Package venues implements the venue registry domain for Scout.
// It provides types, data access, and business logic for the persistent
// venue records that research and health-check runs reconcile against.
package venues

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/identity"
)

// Venue lifecycle statuses.
const (
	StatusActive      = "active"
	StatusNeedsReview = "needs_review"
	StatusArchived    = "archived"
)

// Candidate confidence levels.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ValidStatus reports whether s is a recognized lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusNeedsReview, StatusArchived:
		return true
	}
	return false
}

// NormalizeConfidence folds a reported confidence level onto the known
// set, defaulting to medium for unrecognized or empty values.
func NormalizeConfidence(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ConfidenceLow:
		return ConfidenceLow
	case ConfidenceHigh:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}

// Venue represents a registered venue with its descriptive profile and
// lifecycle state. IdentityKey is derived from the normalized name and
// address and carries a unique index.
type Venue struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	IdentityKey      string     `json:"identity_key"`
	Neighborhood     *string    `json:"neighborhood"`
	VenueType        *string    `json:"venue_type"`
	Website          *string    `json:"website"`
	Phone            *string    `json:"phone"`
	Email            *string    `json:"email"`
	ContactName      *string    `json:"contact_name"`
	ContactTitle     *string    `json:"contact_title"`
	PrivateEventsURL *string    `json:"private_events_url"`
	BookingFormURL   *string    `json:"booking_form_url"`
	PriceRange       *string    `json:"price_range"`
	EstimatedCost    *string    `json:"estimated_cost"`
	CapacityMin      *int       `json:"capacity_min"`
	CapacityMax      *int       `json:"capacity_max"`
	PrivateSpace     bool       `json:"private_space"`
	AVEquipment      bool       `json:"av_equipment"`
	OutdoorSpace     bool       `json:"outdoor_space"`
	CuisineStyle     *string    `json:"cuisine_style"`
	BestFor          []string   `json:"best_for"`
	Highlights       *string    `json:"highlights"`
	SourceURL        *string    `json:"source_url"`
	Confidence       string     `json:"confidence"`
	Status           string     `json:"status"`
	SourceCriteria   *string    `json:"source_criteria"`
	ArchiveReason    *string    `json:"archive_reason"`
	LastResearchedAt *time.Time `json:"last_researched_at"`
	LastVerifiedAt   *time.Time `json:"last_verified_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Identity returns the venue's identity projection for matching.
func (v Venue) Identity() identity.Identity {
	return identity.Identity{Name: v.Name, Address: v.Address}
}

// Ref returns the venue's matcher reference.
func (v Venue) Ref() identity.Ref {
	return identity.Ref{
		ID:             v.ID,
		Name:           v.Name,
		Address:        v.Address,
		LastVerifiedAt: v.LastVerifiedAt,
	}
}

// CreateCommand carries the data needed to register a new venue.
// Name and City are required; Address may be empty when research could
// not pin down a street address. Status defaults to active.
type CreateCommand struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	Neighborhood     *string  `json:"neighborhood,omitempty"`
	VenueType        *string  `json:"venue_type,omitempty"`
	Website          *string  `json:"website,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Email            *string  `json:"email,omitempty"`
	ContactName      *string  `json:"contact_name,omitempty"`
	ContactTitle     *string  `json:"contact_title,omitempty"`
	PrivateEventsURL *string  `json:"private_events_url,omitempty"`
	BookingFormURL   *string  `json:"booking_form_url,omitempty"`
	PriceRange       *string  `json:"price_range,omitempty"`
	EstimatedCost    *string  `json:"estimated_cost,omitempty"`
	CapacityMin      *int     `json:"capacity_min,omitempty"`
	CapacityMax      *int     `json:"capacity_max,omitempty"`
	PrivateSpace     bool     `json:"private_space"`
	AVEquipment      bool     `json:"av_equipment"`
	OutdoorSpace     bool     `json:"outdoor_space"`
	CuisineStyle     *string  `json:"cuisine_style,omitempty"`
	BestFor          []string `json:"best_for,omitempty"`
	Highlights       *string  `json:"highlights,omitempty"`
	SourceURL        *string  `json:"source_url,omitempty"`
	Confidence       string   `json:"confidence,omitempty"`
	Status           string   `json:"status,omitempty"`
	SourceCriteria   *string  `json:"source_criteria,omitempty"`
}

// Validate checks required fields and normalizes status and confidence.
func (c *CreateCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.City) == "" {
		return ErrInvalidVenue
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !ValidStatus(c.Status) {
		return ErrInvalidStatus
	}
	c.Confidence = NormalizeConfidence(c.Confidence)
	return nil
}

// UpdateCommand is a partial patch against an existing venue. Nil fields
// are left untouched. MarkResearched and MarkVerified advance the
// corresponding lifecycle timestamp; at least one field or mark must be
// set for the command to be valid.
type UpdateCommand struct {
	Name             *string  `json:"name,omitempty"`
	Address          *string  `json:"address,omitempty"`
	City             *string  `json:"city,omitempty"`
	Neighborhood     *string  `json:"neighborhood,omitempty"`
	VenueType        *string  `json:"venue_type,omitempty"`
	Website          *string  `json:"website,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Email            *string  `json:"email,omitempty"`
	ContactName      *string  `json:"contact_name,omitempty"`
	ContactTitle     *string  `json:"contact_title,omitempty"`
	PrivateEventsURL *string  `json:"private_events_url,omitempty"`
	BookingFormURL   *string  `json:"booking_form_url,omitempty"`
	PriceRange       *string  `json:"price_range,omitempty"`
	EstimatedCost    *string  `json:"estimated_cost,omitempty"`
	CapacityMin      *int     `json:"capacity_min,omitempty"`
	CapacityMax      *int     `json:"capacity_max,omitempty"`
	PrivateSpace     *bool    `json:"private_space,omitempty"`
	AVEquipment      *bool    `json:"av_equipment,omitempty"`
	OutdoorSpace     *bool    `json:"outdoor_space,omitempty"`
	CuisineStyle     *string  `json:"cuisine_style,omitempty"`
	BestFor          []string `json:"best_for,omitempty"`
	Highlights       *string  `json:"highlights,omitempty"`
	SourceURL        *string  `json:"source_url,omitempty"`
	Confidence       *string  `json:"confidence,omitempty"`
	Status           *string  `json:"status,omitempty"`
	SourceCriteria   *string  `json:"source_criteria,omitempty"`

	MarkResearched bool `json:"mark_researched,omitempty"`
	MarkVerified   bool `json:"mark_verified,omitempty"`
}

// Validate rejects empty patches and unknown statuses.
func (c UpdateCommand) Validate() error {
	if c.Status != nil && !ValidStatus(*c.Status) {
		return ErrInvalidStatus
	}
	if !c.HasChanges() {
		return ErrInvalidUpdate
	}
	return nil
}

// HasChanges reports whether the patch touches any field or timestamp.
func (c UpdateCommand) HasChanges() bool {
	if c.MarkResearched || c.MarkVerified {
		return true
	}
	if c.BestFor != nil {
		return true
	}
	return c.Name != nil || c.Address != nil || c.City != nil ||
		c.Neighborhood != nil || c.VenueType != nil || c.Website != nil ||
		c.Phone != nil || c.Email != nil || c.ContactName != nil ||
		c.ContactTitle != nil || c.PrivateEventsURL != nil ||
		c.BookingFormURL != nil || c.PriceRange != nil ||
		c.EstimatedCost != nil || c.CapacityMin != nil ||
		c.CapacityMax != nil || c.PrivateSpace != nil ||
		c.AVEquipment != nil || c.OutdoorSpace != nil ||
		c.CuisineStyle != nil || c.Highlights != nil ||
		c.SourceURL != nil || c.Confidence != nil ||
		c.Status != nil || c.SourceCriteria != nil
}

// apply folds the patch into a copy of the venue. Lifecycle timestamps
// are handled by the repository; apply only covers descriptive fields.
func (c UpdateCommand) apply(v Venue) Venue {
	if c.Name != nil {
		v.Name = *c.Name
	}
	if c.Address != nil {
		v.Address = *c.Address
	}
	if c.City != nil {
		v.City = *c.City
	}
	if c.Neighborhood != nil {
		v.Neighborhood = c.Neighborhood
	}
	if c.VenueType != nil {
		v.VenueType = c.VenueType
	}
	if c.Website != nil {
		v.Website = c.Website
	}
	if c.Phone != nil {
		v.Phone = c.Phone
	}
	if c.Email != nil {
		v.Email = c.Email
	}
	if c.ContactName != nil {
		v.ContactName = c.ContactName
	}
	if c.ContactTitle != nil {
		v.ContactTitle = c.ContactTitle
	}
	if c.PrivateEventsURL != nil {
		v.PrivateEventsURL = c.PrivateEventsURL
	}
	if c.BookingFormURL != nil {
		v.BookingFormURL = c.BookingFormURL
	}
	if c.PriceRange != nil {
		v.PriceRange = c.PriceRange
	}
	if c.EstimatedCost != nil {
		v.EstimatedCost = c.EstimatedCost
	}
	if c.CapacityMin != nil {
		v.CapacityMin = c.CapacityMin
	}
	if c.CapacityMax != nil {
		v.CapacityMax = c.CapacityMax
	}
	if c.PrivateSpace != nil {
		v.PrivateSpace = *c.PrivateSpace
	}
	if c.AVEquipment != nil {
		v.AVEquipment = *c.AVEquipment
	}
	if c.OutdoorSpace != nil {
		v.OutdoorSpace = *c.OutdoorSpace
	}
	if c.CuisineStyle != nil {
		v.CuisineStyle = c.CuisineStyle
	}
	if c.BestFor != nil {
		v.BestFor = c.BestFor
	}
	if c.Highlights != nil {
		v.Highlights = c.Highlights
	}
	if c.SourceURL != nil {
		v.SourceURL = c.SourceURL
	}
	if c.Confidence != nil {
		v.Confidence = NormalizeConfidence(*c.Confidence)
	}
	if c.Status != nil {
		v.Status = *c.Status
	}
	if c.SourceCriteria != nil {
		v.SourceCriteria = c.SourceCriteria
	}
	v.IdentityKey = identity.Key(v.Name, v.Address)
	return v
}
