package api

import (
	"embed"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

// setupFrontendRoutes sets up the project form pages
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.getHealth())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project form endpoints
		r.Get("/project/new", handlers.projectFormHandler.newProjectForm())
		r.Post("/project/new", handlers.projectFormHandler.submitProjectForm())
		r.Get("/project/{projectID}/edit", handlers.projectFormHandler.editProjectForm())
		r.Post("/project/{projectID}/edit", handlers.projectFormHandler.submitProjectForm())
	})
}
