// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/scoutd/scout/internal/config"
	"github.com/scoutd/scout/internal/infrastructure"
	"github.com/scoutd/scout/pkg/middleware"
	"github.com/scoutd/scout/pkg/module"
	"github.com/scoutd/scout/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
