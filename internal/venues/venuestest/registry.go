// Package venuestest provides an in-memory venues.System for tests.
// It mirrors the repository's semantics closely enough for domain tests:
// identity-key uniqueness, lifecycle transitions, partial patches, and
// staleness ordering.
package venuestest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/identity"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/pkg/pagination"
)

// Registry is an in-memory venues.System.
//
// HideFromMatch suppresses results from the next N MatchCandidates calls,
// which lets tests simulate a concurrent create slipping in between match
// and insert.
type Registry struct {
	mu            sync.Mutex
	records       map[uuid.UUID]venues.Venue
	HideFromMatch int
}

var _ venues.System = (*Registry)(nil)

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[uuid.UUID]venues.Venue)}
}

// Seed inserts a venue directly, assigning an ID, identity key, status,
// and timestamps when missing. It bypasses create validation.
func (r *Registry) Seed(v venues.Venue) venues.Venue {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.IdentityKey == "" {
		v.IdentityKey = identity.Key(v.Name, v.Address)
	}
	if v.Status == "" {
		v.Status = venues.StatusActive
	}
	if v.Confidence == "" {
		v.Confidence = venues.ConfidenceMedium
	}
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}

	r.records[v.ID] = v
	return v
}

// Get returns a stored venue by ID.
func (r *Registry) Get(id uuid.UUID) (venues.Venue, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.records[id]
	return v, ok
}

// Len returns the number of stored records across all statuses.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Handler is unused in tests.
func (r *Registry) Handler() *venues.Handler {
	return nil
}

func (r *Registry) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters venues.Filters,
) (*pagination.PageResult[venues.Venue], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []venues.Venue
	for _, v := range r.records {
		if filters.Status != nil && v.Status != *filters.Status {
			continue
		}
		if filters.City != nil && !strings.EqualFold(v.City, *filters.City) {
			continue
		}
		if filters.Name != nil &&
			!strings.Contains(strings.ToLower(v.Name), strings.ToLower(*filters.Name)) {
			continue
		}
		if filters.BestFor != nil && !contains(v.BestFor, *filters.BestFor) {
			continue
		}
		if filters.CapacityAtLeast != nil &&
			(v.CapacityMax == nil || *v.CapacityMax < *filters.CapacityAtLeast) {
			continue
		}
		matched = append(matched, v)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	return &pagination.PageResult[venues.Venue]{
		Data:       matched,
		Total:      len(matched),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: 1,
	}, nil
}

func (r *Registry) Find(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.records[id]
	if !ok {
		return nil, venues.ErrNotFound
	}
	return &v, nil
}

func (r *Registry) Create(ctx context.Context, cmd venues.CreateCommand) (*venues.Venue, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := identity.Key(cmd.Name, cmd.Address)
	for _, v := range r.records {
		if v.IdentityKey == key {
			return nil, venues.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	v := venues.Venue{
		ID:               uuid.New(),
		Name:             cmd.Name,
		Address:          cmd.Address,
		City:             cmd.City,
		IdentityKey:      key,
		Neighborhood:     cmd.Neighborhood,
		VenueType:        cmd.VenueType,
		Website:          cmd.Website,
		Phone:            cmd.Phone,
		Email:            cmd.Email,
		ContactName:      cmd.ContactName,
		ContactTitle:     cmd.ContactTitle,
		PrivateEventsURL: cmd.PrivateEventsURL,
		BookingFormURL:   cmd.BookingFormURL,
		PriceRange:       cmd.PriceRange,
		EstimatedCost:    cmd.EstimatedCost,
		CapacityMin:      cmd.CapacityMin,
		CapacityMax:      cmd.CapacityMax,
		PrivateSpace:     cmd.PrivateSpace,
		AVEquipment:      cmd.AVEquipment,
		OutdoorSpace:     cmd.OutdoorSpace,
		CuisineStyle:     cmd.CuisineStyle,
		BestFor:          cmd.BestFor,
		Highlights:       cmd.Highlights,
		SourceURL:        cmd.SourceURL,
		Confidence:       cmd.Confidence,
		Status:           cmd.Status,
		SourceCriteria:   cmd.SourceCriteria,
		LastResearchedAt: &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.records[v.ID] = v
	return &v, nil
}

func (r *Registry) Update(
	ctx context.Context,
	id uuid.UUID,
	cmd venues.UpdateCommand,
) (*venues.Venue, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.records[id]
	if !ok {
		return nil, venues.ErrNotFound
	}
	if v.Status == venues.StatusArchived && cmd.Status != nil && *cmd.Status != venues.StatusArchived {
		return nil, venues.ErrArchived
	}

	applyText(&v.Name, cmd.Name)
	applyText(&v.Address, cmd.Address)
	applyText(&v.City, cmd.City)
	applyPtr(&v.Neighborhood, cmd.Neighborhood)
	applyPtr(&v.VenueType, cmd.VenueType)
	applyPtr(&v.Website, cmd.Website)
	applyPtr(&v.Phone, cmd.Phone)
	applyPtr(&v.Email, cmd.Email)
	applyPtr(&v.ContactName, cmd.ContactName)
	applyPtr(&v.ContactTitle, cmd.ContactTitle)
	applyPtr(&v.PrivateEventsURL, cmd.PrivateEventsURL)
	applyPtr(&v.BookingFormURL, cmd.BookingFormURL)
	applyPtr(&v.PriceRange, cmd.PriceRange)
	applyPtr(&v.EstimatedCost, cmd.EstimatedCost)
	applyPtr(&v.CapacityMin, cmd.CapacityMin)
	applyPtr(&v.CapacityMax, cmd.CapacityMax)
	applyPtr(&v.CuisineStyle, cmd.CuisineStyle)
	applyPtr(&v.Highlights, cmd.Highlights)
	applyPtr(&v.SourceURL, cmd.SourceURL)
	applyPtr(&v.SourceCriteria, cmd.SourceCriteria)
	if cmd.PrivateSpace != nil {
		v.PrivateSpace = *cmd.PrivateSpace
	}
	if cmd.AVEquipment != nil {
		v.AVEquipment = *cmd.AVEquipment
	}
	if cmd.OutdoorSpace != nil {
		v.OutdoorSpace = *cmd.OutdoorSpace
	}
	if cmd.BestFor != nil {
		v.BestFor = cmd.BestFor
	}
	if cmd.Confidence != nil {
		v.Confidence = venues.NormalizeConfidence(*cmd.Confidence)
	}
	if cmd.Status != nil {
		v.Status = *cmd.Status
	}

	now := time.Now().UTC()
	if cmd.MarkResearched {
		v.LastResearchedAt = &now
	}
	if cmd.MarkVerified {
		v.LastVerifiedAt = &now
	}
	v.IdentityKey = identity.Key(v.Name, v.Address)
	v.UpdatedAt = now

	r.records[id] = v
	return &v, nil
}

func (r *Registry) Archive(ctx context.Context, id uuid.UUID, reason string) (*venues.Venue, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, venues.ErrArchiveReason
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.records[id]
	if !ok {
		return nil, venues.ErrNotFound
	}
	if v.Status == venues.StatusArchived {
		return nil, venues.ErrArchived
	}

	v.Status = venues.StatusArchived
	v.ArchiveReason = &reason
	v.UpdatedAt = time.Now().UTC()

	r.records[id] = v
	return &v, nil
}

func (r *Registry) Reactivate(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.records[id]
	if !ok {
		return nil, venues.ErrNotFound
	}
	if v.Status != venues.StatusArchived {
		return nil, venues.ErrNotArchived
	}

	now := time.Now().UTC()
	v.Status = venues.StatusActive
	v.ArchiveReason = nil
	v.LastVerifiedAt = &now
	v.UpdatedAt = now

	r.records[id] = v
	return &v, nil
}

func (r *Registry) MatchCandidates(ctx context.Context, city, name string) ([]venues.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.HideFromMatch > 0 {
		r.HideFromMatch--
		return nil, nil
	}

	var matched []venues.Venue
	for _, v := range r.records {
		if city != "" && !strings.EqualFold(v.City, city) {
			continue
		}
		matched = append(matched, v)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return matched, nil
}

func (r *Registry) StalestActive(ctx context.Context, limit int) ([]venues.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []venues.Venue
	for _, v := range r.records {
		if v.Status == venues.StatusActive {
			active = append(active, v)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		switch {
		case a.LastVerifiedAt == nil && b.LastVerifiedAt != nil:
			return true
		case a.LastVerifiedAt != nil && b.LastVerifiedAt == nil:
			return false
		case a.LastVerifiedAt != nil && b.LastVerifiedAt != nil &&
			!a.LastVerifiedAt.Equal(*b.LastVerifiedAt):
			return a.LastVerifiedAt.Before(*b.LastVerifiedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	if limit < len(active) {
		active = active[:limit]
	}
	return active, nil
}

func applyText(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
