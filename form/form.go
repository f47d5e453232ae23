// Package form holds the project form controller: the state behind the
// create/edit project screen, the load that fills it and the submission that
// sends it back to the project API.
package form

import (
	"context"
	"sync"

	"github.com/rpupo63/unified-personal-site-admin/errs"
	"github.com/rpupo63/unified-personal-site-admin/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultListingRoute is where the form sends the user when it is done.
const DefaultListingRoute = "/react-projects"

// ProjectAPI is the project REST API as seen by the form.
type ProjectAPI interface {
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project models.Project) error
	Update(ctx context.Context, id string, project models.Project) error
}

// ProjectForm owns the state of one create or edit form.
// All reads and writes of the state go through its lock.
type ProjectForm struct {
	api          ProjectAPI
	navigator    Navigator
	listingRoute string
	logger       zerolog.Logger

	mu         sync.Mutex
	mode       Mode
	id         string
	state      models.Project
	load       LoadState
	loadGen    uint64
	submitting bool
}

type Option func(*ProjectForm)

func WithListingRoute(route string) Option {
	return func(f *ProjectForm) {
		if route != "" {
			f.listingRoute = route
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(f *ProjectForm) {
		f.logger = logger
	}
}

// New determines the mode from id: an id means the form edits that project,
// no id means it creates a new one.
func New(api ProjectAPI, navigator Navigator, id string, opts ...Option) *ProjectForm {
	f := &ProjectForm{
		api:          api,
		navigator:    navigator,
		listingRoute: DefaultListingRoute,
		logger:       log.With().Str("component", "projectForm").Logger(),
		mode:         ModeCreate,
		id:           id,
		state:        models.EmptyProject(),
	}
	if id != "" {
		f.mode = ModeEdit
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With().Str("mode", f.mode.String()).Logger()
	return f
}

func (f *ProjectForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *ProjectForm) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *ProjectForm) ListingRoute() string {
	return f.listingRoute
}

// Snapshot returns a copy of the current form state.
func (f *ProjectForm) Snapshot() models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *ProjectForm) LoadState() LoadState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load
}

// Submitting reports whether a submission is in flight, so the submit control can be disabled.
func (f *ProjectForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Update merges patch into the latest state. It is the only path for user input.
func (f *ProjectForm) Update(patch models.ProjectPatch) models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = f.state.Merge(patch)
	return f.state
}

// Mount runs the load an edit form needs before it is shown. Create forms have nothing to load.
func (f *ProjectForm) Mount(ctx context.Context) LoadState {
	if f.Mode() != ModeEdit {
		return f.LoadState()
	}
	return f.Load(ctx)
}

// Retarget points an edit form at another project and loads it.
func (f *ProjectForm) Retarget(ctx context.Context, id string) (LoadState, error) {
	f.mu.Lock()
	if f.mode != ModeEdit {
		f.mu.Unlock()
		return LoadState{}, errs.NewModeFixedError("a create form cannot be pointed at an existing project")
	}
	if id == "" {
		f.mu.Unlock()
		return LoadState{}, errs.NewModeFixedError("an edit form needs a project id")
	}
	if id == f.id {
		state := f.load
		f.mu.Unlock()
		return state, nil
	}
	f.id = id
	f.mu.Unlock()

	return f.Load(ctx), nil
}

// Load fetches the project being edited and replaces the form state with it.
// Only the most recently issued load may apply its result.
func (f *ProjectForm) Load(ctx context.Context) LoadState {
	f.mu.Lock()
	f.loadGen++
	gen := f.loadGen
	id := f.id
	f.load = LoadState{Status: LoadLoading}
	f.mu.Unlock()

	project, err := f.api.Get(ctx, id)

	f.mu.Lock()
	if gen != f.loadGen {
		current := f.load
		f.mu.Unlock()
		f.logger.Debug().Str("projectId", id).Msg("discarding stale project load")
		return current
	}

	switch {
	case err != nil:
		f.load = LoadState{Status: LoadFailed, Reason: err.Error()}
		f.mu.Unlock()
		f.logger.Error().Err(err).Str("projectId", id).Msg("failed to load project")
		return LoadState{Status: LoadFailed, Reason: err.Error()}

	case project == nil:
		f.load = LoadState{Status: LoadNotFound}
		f.mu.Unlock()
		f.logger.Warn().Str("projectId", id).Msg(errs.NewNotFound("Project", id).Error())
		f.navigate()
		return LoadState{Status: LoadNotFound}

	default:
		f.state = *project
		f.load = LoadState{Status: LoadLoaded}
		f.mu.Unlock()
		return LoadState{Status: LoadLoaded}
	}
}

// Submit sends the current state to the API, creating or updating depending on
// the mode. Whatever the outcome, a create form is reset and the user is sent
// to the listing route. The returned error is the API error, already logged.
func (f *ProjectForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return errs.NewSubmitInFlightError()
	}
	f.submitting = true
	payload := f.state
	mode, id := f.mode, f.id
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		if mode == ModeCreate {
			f.state = models.EmptyProject()
		}
		f.submitting = false
		f.mu.Unlock()
		f.navigate()
	}()

	var err error
	if mode == ModeCreate {
		err = f.api.Create(ctx, payload)
	} else {
		err = f.api.Update(ctx, id, payload)
	}
	if err != nil {
		f.logger.Error().Err(err).Str("projectId", id).Msg("failed to save project")
	}
	return err
}

func (f *ProjectForm) navigate() {
	if f.navigator == nil {
		return
	}
	f.navigator.Navigate(f.listingRoute)
}
