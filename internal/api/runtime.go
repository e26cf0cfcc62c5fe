package api

import (
	"github.com/scoutd/scout/internal/config"
	"github.com/scoutd/scout/internal/identity"
	"github.com/scoutd/scout/internal/infrastructure"
	"github.com/scoutd/scout/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination        pagination.Config
	MatchPolicy       identity.Policy
	HealthLimit       int
	HealthConcurrency int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Agent:     infra.Agent,
		},
		Pagination:        cfg.API.Pagination,
		MatchPolicy:       cfg.Research.MatchPolicy(),
		HealthLimit:       cfg.Research.HealthLimit,
		HealthConcurrency: cfg.Research.HealthConcurrency,
	}
}
