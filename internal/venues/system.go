package venues

import (
	"context"

	"github.com/google/uuid"

	"github.com/scoutd/scout/pkg/pagination"
)

// System defines the public contract for venue registry operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Venue], error)

	Find(ctx context.Context, id uuid.UUID) (*Venue, error)
	Create(ctx context.Context, cmd CreateCommand) (*Venue, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Venue, error)
	Archive(ctx context.Context, id uuid.UUID, reason string) (*Venue, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*Venue, error)

	// MatchCandidates returns records in a city that plausibly denote the
	// named venue, across all lifecycle statuses. An empty name returns
	// every record in the city.
	MatchCandidates(ctx context.Context, city, name string) ([]Venue, error)

	// StalestActive returns up to limit active venues ordered by
	// last_verified_at ascending, never-verified records first.
	StalestActive(ctx context.Context, limit int) ([]Venue, error)
}
