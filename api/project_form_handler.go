package api

import (
	"errors"
	"html/template"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/unified-personal-site-admin/errs"
	"github.com/rpupo63/unified-personal-site-admin/form"
	"github.com/rpupo63/unified-personal-site-admin/models"
	"github.com/rpupo63/unified-personal-site-admin/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	projectFormTemplate = "project_form.html"
	maxUploadSize       = 10 << 20 // 10MB
)

type projectFormHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectAPI   form.ProjectAPI
	uploader     services.ImageUploader
	listingRoute string
	templates    *template.Template
}

func newProjectFormHandler(projectAPI form.ProjectAPI, uploader services.ImageUploader, listingRoute string, templates *template.Template) projectFormHandler {
	logger := log.With().Str("handlerName", "projectFormHandler").Logger()

	return projectFormHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectAPI:   projectAPI,
		uploader:     uploader,
		listingRoute: listingRoute,
		templates:    templates,
	}
}

func (h projectFormHandler) newForm(id string, navigator form.Navigator) *form.ProjectForm {
	return form.New(h.projectAPI, navigator, id,
		form.WithListingRoute(h.listingRoute),
		form.WithLogger(h.logger),
	)
}

// newProjectForm renders an empty create form
// @Router /project/new [get]
func (h projectFormHandler) newProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := h.newForm("", nil)
		h.render(w, http.StatusOK, f)
	}
}

// editProjectForm loads the project and renders it for editing
// @Router /project/{projectID}/edit [get]
func (h projectFormHandler) editProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		navigator := &form.RecordingNavigator{}
		f := h.newForm(projectID, navigator)
		state := f.Mount(r.Context())

		if route, ok := navigator.Last(); ok {
			http.Redirect(w, r, route, http.StatusSeeOther)
			return
		}

		status := http.StatusOK
		if state.Failed() {
			status = http.StatusBadGateway
		}
		h.render(w, status, f)
	}
}

// submitProjectForm creates or updates the project, then redirects to the listing
// @Router /project/new [post]
// @Router /project/{projectID}/edit [post]
func (h projectFormHandler) submitProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.parseForm(w, r); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse project form")
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("malformed form body", "body", err.Error()))
			return
		}

		patch := models.ProjectPatchFromValues(r.PostForm)
		if imageURL, ok := h.uploadImage(r); ok {
			patch.Image = &imageURL
		}

		navigator := &form.RecordingNavigator{}
		f := h.newForm(chi.URLParam(r, "projectID"), navigator)
		f.Update(patch)

		// Failures are logged by the form; the user is sent to the listing either way.
		_ = f.Submit(r.Context())

		route, ok := navigator.Last()
		if !ok {
			route = h.listingRoute
		}
		http.Redirect(w, r, route, http.StatusSeeOther)
	}
}

func (h projectFormHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		return r.ParseMultipartForm(maxUploadSize)
	}
	return r.ParseForm()
}

// uploadImage stores the optional image_file upload and returns its URL.
func (h projectFormHandler) uploadImage(r *http.Request) (string, bool) {
	if h.uploader == nil || r.MultipartForm == nil {
		return "", false
	}

	file, header, err := r.FormFile("image_file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			h.logger.Warn().Err(err).Msg("Failed to read uploaded image")
		}
		return "", false
	}
	defer file.Close()

	imageURL, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload project image")
		return "", false
	}
	return imageURL, true
}

func (h projectFormHandler) render(w http.ResponseWriter, status int, f *form.ProjectForm) {
	view := projectFormView{
		Heading:       "Create/Update Project",
		Action:        "/project/new",
		Mode:          f.Mode().String(),
		Project:       f.Snapshot(),
		Categories:    models.Categories,
		UploadEnabled: h.uploader != nil,
		Submitting:    f.Submitting(),
	}
	if f.Mode() == form.ModeEdit {
		view.ProjectID = f.ID()
		view.Action = "/project/" + url.PathEscape(f.ID()) + "/edit"
	}
	if state := f.LoadState(); state.Failed() {
		view.LoadFailed = true
		view.LoadReason = state.Reason
	}

	h.responder.WriteHTML(w, status, h.templates, projectFormTemplate, view)
}
