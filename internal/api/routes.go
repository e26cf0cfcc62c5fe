package api

import (
	"net/http"

	"github.com/scoutd/scout/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	ops := NewOperations(domain, runtime)

	routes.Register(
		mux,
		domain.Venues.Handler().Routes(),
		ops.Routes(),
	)
}
