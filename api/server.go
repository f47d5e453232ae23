package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/unified-personal-site-admin/config"
	"github.com/rpupo63/unified-personal-site-admin/form"
	"github.com/rpupo63/unified-personal-site-admin/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(settings config.Settings, projectAPI form.ProjectAPI, uploader services.ImageUploader) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router, err := newRouter(projectAPI,
		withSettings(settings),
		withStartupTime(startupTime),
		withUploader(uploader),
	)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	settings    config.Settings
	startupTime time.Time
	uploader    services.ImageUploader
}

func withSettings(s config.Settings) func(*router) {
	return func(r *router) {
		r.settings = s
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withUploader(uploader services.ImageUploader) func(*router) {
	return func(r *router) {
		r.uploader = uploader
	}
}

func newRouter(projectAPI form.ProjectAPI, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.settings.ListingRoute == "" {
		router.settings.ListingRoute = form.DefaultListingRoute
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(router.settings.AcceptedOrigins))

	handlers := initializeHandlers(projectAPI, router, templates)

	setupFrontendRoutes(chiRouter, handlers)

	return chiRouter, nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Run serves until the server is shut down. A graceful shutdown is not an error.
func (s Server) Run() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) StartupTime() time.Time {
	return s.startupTime
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
