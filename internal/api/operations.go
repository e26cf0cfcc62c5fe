package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/health"
	"github.com/scoutd/scout/internal/reconcile"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
	"github.com/scoutd/scout/pkg/handlers"
	"github.com/scoutd/scout/pkg/routes"
)

// Operations provides HTTP endpoints for agent-driven workflows:
// research runs, health revalidation, and contact enrichment.
type Operations struct {
	domain      *Domain
	logger      *slog.Logger
	healthLimit int
}

// ResearchRequest carries the research brief and run options.
type ResearchRequest struct {
	research.Query
	NewOnly bool `json:"new_only"`
}

// ResearchResponse pairs the agent's research report with the
// reconciliation outcome applied to the registry.
type ResearchResponse struct {
	Report  *research.Report   `json:"report"`
	Outcome *reconcile.Outcome `json:"outcome"`
}

// HealthCheckRequest optionally overrides the configured revalidation batch size.
type HealthCheckRequest struct {
	Limit int `json:"limit"`
}

// NewOperations creates an Operations handler over the domain systems.
func NewOperations(domain *Domain, runtime *Runtime) *Operations {
	return &Operations{
		domain:      domain,
		logger:      runtime.Logger.With("handler", "operations"),
		healthLimit: runtime.HealthLimit,
	}
}

// Routes returns the route group definition for operation endpoints.
func (o *Operations) Routes() routes.Group {
	return routes.Group{
		Prefix: "/operations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/research", Handler: o.Research},
			{Method: "POST", Pattern: "/healthcheck", Handler: o.HealthCheck},
			{Method: "POST", Pattern: "/venues/{id}/enrich", Handler: o.Enrich},
		},
	}
}

// Research runs an agent research pass for the given brief and reconciles
// the reported candidates into the venue registry.
func (o *Operations) Research(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, o.logger, http.StatusBadRequest, research.ErrInvalidQuery)
		return
	}

	report, err := o.domain.Research.Research(r.Context(), req.Query, research.Options{
		NewOnly: req.NewOnly,
	})
	if err != nil {
		handlers.RespondError(w, o.logger, research.MapHTTPStatus(err), err)
		return
	}

	outcome, err := o.domain.Reconcile.Reconcile(r.Context(), report.Candidates, req.Query.Criteria())
	if err != nil {
		handlers.RespondError(w, o.logger, venues.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ResearchResponse{
		Report:  report,
		Outcome: outcome,
	})
}

// HealthCheck revalidates the stalest active venues. The body is optional;
// when omitted the configured batch size applies.
func (o *Operations) HealthCheck(w http.ResponseWriter, r *http.Request) {
	req := HealthCheckRequest{Limit: o.healthLimit}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, o.logger, http.StatusBadRequest, health.ErrInvalidLimit)
		return
	}

	if req.Limit == 0 {
		req.Limit = o.healthLimit
	}

	summary, err := o.domain.Health.Revalidate(r.Context(), req.Limit)
	if err != nil {
		handlers.RespondError(w, o.logger, health.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Enrich runs an agent enrichment pass for a single venue's contact
// and booking details.
func (o *Operations) Enrich(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, o.logger, http.StatusBadRequest, venues.ErrInvalidVenue)
		return
	}

	report, err := o.domain.Outreach.Enrich(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, o.logger, venues.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
