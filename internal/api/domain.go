package api

import (
	"github.com/scoutd/scout/internal/health"
	"github.com/scoutd/scout/internal/outreach"
	"github.com/scoutd/scout/internal/reconcile"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Venues    venues.System
	Research  *research.Orchestrator
	Reconcile *reconcile.Engine
	Health    *health.Engine
	Outreach  *outreach.Engine
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	venuesSystem := venues.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Venues:    venuesSystem,
		Research:  research.New(runtime.Agent, venuesSystem, runtime.Logger),
		Reconcile: reconcile.New(venuesSystem, runtime.MatchPolicy, runtime.Logger),
		Health:    health.New(runtime.Agent, venuesSystem, runtime.Logger, runtime.HealthConcurrency),
		Outreach:  outreach.New(runtime.Agent, venuesSystem, runtime.Logger),
	}
}
