package api

import "github.com/rpupo63/unified-personal-site-admin/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectFormHandler projectFormHandler
	healthHandler      healthHandler
}

// ErrorResponse represents an error response from the admin server
type ErrorResponse struct {
	Error   string `json:"error" example:"malformed request"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"image_file"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// projectFormView is what templates/project_form.html renders.
type projectFormView struct {
	Heading       string
	Action        string
	Mode          string
	ProjectID     string
	Project       models.Project
	Categories    []models.Category
	LoadFailed    bool
	LoadReason    string
	UploadEnabled bool
	Submitting    bool
}
