// Package scalar serves the Scalar API reference UI.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/scoutd/scout/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, rendering the spec published under apiBase.
func NewModule(basePath, apiBase string) *module.Module {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"SpecURL": apiBase + "/openapi.json"})
	})

	return module.New(basePath, mux)
}
