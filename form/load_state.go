package form

// LoadStatus is the outcome of the edit-mode load, for the rendering layer to switch on.
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadLoading
	LoadLoaded
	LoadNotFound
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadNotFound:
		return "not_found"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadState carries the load status and, for LoadFailed, why.
type LoadState struct {
	Status LoadStatus
	Reason string
}

func (s LoadState) Failed() bool {
	return s.Status == LoadFailed
}

// Mode is fixed when the form is created.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}
