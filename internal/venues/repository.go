package venues

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/identity"
	"github.com/scoutd/scout/pkg/pagination"
	"github.com/scoutd/scout/pkg/query"
	"github.com/scoutd/scout/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a venue repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "venues"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Venue], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Neighborhood", "VenueType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count venues: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanVenue)
	if err != nil {
		return nil, fmt.Errorf("query venues: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Venue, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVenue)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

const insertVenue = `
	INSERT INTO venues(
		id, name, address, city, identity_key, neighborhood, venue_type,
		website, phone, email, contact_name, contact_title,
		private_events_url, booking_form_url, price_range, estimated_cost,
		capacity_min, capacity_max, private_space, av_equipment,
		outdoor_space, cuisine_style, best_for, highlights, source_url,
		confidence, status, source_criteria, last_researched_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
		$28, $29)
	RETURNING ` + returningColumns

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Venue, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	bestFor, err := marshalBestFor(cmd.BestFor)
	if err != nil {
		return nil, fmt.Errorf("encode best_for: %w", err)
	}

	insertArgs := []any{
		uuid.New(),
		cmd.Name,
		cmd.Address,
		cmd.City,
		identity.Key(cmd.Name, cmd.Address),
		cmd.Neighborhood,
		cmd.VenueType,
		cmd.Website,
		cmd.Phone,
		cmd.Email,
		cmd.ContactName,
		cmd.ContactTitle,
		cmd.PrivateEventsURL,
		cmd.BookingFormURL,
		cmd.PriceRange,
		cmd.EstimatedCost,
		cmd.CapacityMin,
		cmd.CapacityMax,
		cmd.PrivateSpace,
		cmd.AVEquipment,
		cmd.OutdoorSpace,
		cmd.CuisineStyle,
		bestFor,
		cmd.Highlights,
		cmd.SourceURL,
		cmd.Confidence,
		cmd.Status,
		cmd.SourceCriteria,
		time.Now().UTC(),
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Venue, error) {
		return repository.QueryOne(ctx, tx, insertVenue, insertArgs, scanVenue)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("venue created", "id", v.ID, "name", v.Name, "city", v.City)
	return &v, nil
}

const updateVenue = `
	UPDATE venues SET
		name = $2, address = $3, city = $4, identity_key = $5,
		neighborhood = $6, venue_type = $7, website = $8, phone = $9,
		email = $10, contact_name = $11, contact_title = $12,
		private_events_url = $13, booking_form_url = $14, price_range = $15,
		estimated_cost = $16, capacity_min = $17, capacity_max = $18,
		private_space = $19, av_equipment = $20, outdoor_space = $21,
		cuisine_style = $22, best_for = $23, highlights = $24,
		source_url = $25, confidence = $26, status = $27,
		source_criteria = $28, archive_reason = $29,
		last_researched_at = $30, last_verified_at = $31, updated_at = $32
	WHERE id = $1
	RETURNING ` + returningColumns

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Venue, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Venue, error) {
		current, err := r.findTx(ctx, tx, id)
		if err != nil {
			return Venue{}, err
		}
		if current.Status == StatusArchived && cmd.Status != nil && *cmd.Status != StatusArchived {
			// Leaving archived goes through Reactivate, which clears the
			// archive reason and stamps verification.
			return Venue{}, ErrArchived
		}

		next := cmd.apply(current)
		now := time.Now().UTC()
		if cmd.MarkResearched {
			next.LastResearchedAt = &now
		}
		if cmd.MarkVerified {
			next.LastVerifiedAt = &now
		}

		return r.persist(ctx, tx, next, now)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("venue updated", "id", v.ID, "name", v.Name)
	return &v, nil
}

func (r *repo) Archive(ctx context.Context, id uuid.UUID, reason string) (*Venue, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrArchiveReason
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Venue, error) {
		current, err := r.findTx(ctx, tx, id)
		if err != nil {
			return Venue{}, err
		}
		if current.Status == StatusArchived {
			return Venue{}, ErrArchived
		}

		current.Status = StatusArchived
		current.ArchiveReason = &reason
		return r.persist(ctx, tx, current, time.Now().UTC())
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("venue archived", "id", v.ID, "name", v.Name, "reason", reason)
	return &v, nil
}

func (r *repo) Reactivate(ctx context.Context, id uuid.UUID) (*Venue, error) {
	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Venue, error) {
		current, err := r.findTx(ctx, tx, id)
		if err != nil {
			return Venue{}, err
		}
		if current.Status != StatusArchived {
			return Venue{}, ErrNotArchived
		}

		now := time.Now().UTC()
		current.Status = StatusActive
		current.ArchiveReason = nil
		current.LastVerifiedAt = &now
		return r.persist(ctx, tx, current, now)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("venue reactivated", "id", v.ID, "name", v.Name)
	return &v, nil
}

func (r *repo) MatchCandidates(ctx context.Context, city, name string) ([]Venue, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE lower(v.city) = lower($1)",
		projection.Columns(),
		projection.From(),
	)
	args := []any{city}

	if tokens := strings.Fields(identity.NormalizeName(name)); len(tokens) > 0 {
		clauses := make([]string, len(tokens))
		for i, token := range tokens {
			clauses[i] = fmt.Sprintf("v.name ILIKE $%d", len(args)+1)
			args = append(args, "%"+token+"%")
		}
		q += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	records, err := repository.QueryMany(ctx, r.db, q, args, scanVenue)
	if err != nil {
		return nil, fmt.Errorf("query match candidates: %w", err)
	}
	return records, nil
}

func (r *repo) StalestActive(ctx context.Context, limit int) ([]Venue, error) {
	if limit <= 0 {
		return nil, nil
	}

	q := fmt.Sprintf(
		`SELECT %s FROM %s
		WHERE v.status = $1
		ORDER BY v.last_verified_at ASC NULLS FIRST, v.created_at ASC
		LIMIT $2`,
		projection.Columns(),
		projection.From(),
	)

	records, err := repository.QueryMany(ctx, r.db, q, []any{StatusActive, limit}, scanVenue)
	if err != nil {
		return nil, fmt.Errorf("query stalest active venues: %w", err)
	}
	return records, nil
}

func (r *repo) findTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Venue, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	return repository.QueryOne(ctx, tx, q, args, scanVenue)
}

func (r *repo) persist(ctx context.Context, tx *sql.Tx, v Venue, now time.Time) (Venue, error) {
	bestFor, err := marshalBestFor(v.BestFor)
	if err != nil {
		return Venue{}, fmt.Errorf("encode best_for: %w", err)
	}

	updateArgs := []any{
		v.ID,
		v.Name,
		v.Address,
		v.City,
		v.IdentityKey,
		v.Neighborhood,
		v.VenueType,
		v.Website,
		v.Phone,
		v.Email,
		v.ContactName,
		v.ContactTitle,
		v.PrivateEventsURL,
		v.BookingFormURL,
		v.PriceRange,
		v.EstimatedCost,
		v.CapacityMin,
		v.CapacityMax,
		v.PrivateSpace,
		v.AVEquipment,
		v.OutdoorSpace,
		v.CuisineStyle,
		bestFor,
		v.Highlights,
		v.SourceURL,
		v.Confidence,
		v.Status,
		v.SourceCriteria,
		v.ArchiveReason,
		v.LastResearchedAt,
		v.LastVerifiedAt,
		now,
	}

	return repository.QueryOne(ctx, tx, updateVenue, updateArgs, scanVenue)
}

const returningColumns = `id, name, address, city, identity_key, neighborhood,
	venue_type, website, phone, email, contact_name, contact_title,
	private_events_url, booking_form_url, price_range, estimated_cost,
	capacity_min, capacity_max, private_space, av_equipment, outdoor_space,
	cuisine_style, best_for, highlights, source_url, confidence, status,
	source_criteria, archive_reason, last_researched_at, last_verified_at,
	created_at, updated_at`
