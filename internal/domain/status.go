package domain

// StatusKind tags the state of the import form.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is the import form's display state. Renderers switch on Kind;
// Message is display text only.
type Status struct {
	Kind    StatusKind
	Message string
}

// Idle is the state before any submission and after the user edits the form.
func Idle() Status { return Status{Kind: StatusIdle} }

// Loading is the state while an import request is in flight.
func Loading() Status {
	return Status{Kind: StatusLoading, Message: "Importing repository..."}
}

// Success carries the text shown after a successful import.
func Success(message string) Status { return Status{Kind: StatusSuccess, Message: message} }

// Failure carries the text shown after a rejected or failed import.
func Failure(message string) Status { return Status{Kind: StatusError, Message: message} }

// IsLoading reports whether a request is in flight.
func (s Status) IsLoading() bool { return s.Kind == StatusLoading }

// IsTerminal reports whether the status is a success or error result.
func (s Status) IsTerminal() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}
