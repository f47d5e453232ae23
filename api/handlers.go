package api

import (
	"html/template"

	"github.com/rpupo63/unified-personal-site-admin/form"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(projectAPI form.ProjectAPI, r router, templates *template.Template) *routeHandlers {
	return &routeHandlers{
		projectFormHandler: newProjectFormHandler(projectAPI, r.uploader, r.settings.ListingRoute, templates),
		healthHandler:      newHealthHandler(r.startupTime),
	}
}
