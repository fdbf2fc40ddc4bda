package domain

import "errors"

// Domain errors
var (
	// ErrNothingToSave is returned by a save when the unsynced batch is
	// empty. It is a no-op signal, not a server failure; callers must not
	// surface it as a generic error.
	ErrNothingToSave = errors.New("no unsaved annotations")

	// ErrNoPageMetrics is returned when coordinate mapping is requested for
	// a page whose native size or screen box has not been recorded yet.
	// This is a transient race with page load; gestures hitting it are
	// silently ignored.
	ErrNoPageMetrics = errors.New("page metrics not recorded")

	ErrPageOutOfRange  = errors.New("page number out of range")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNoActiveGesture = errors.New("no drawing gesture in progress")
	ErrNoDocument      = errors.New("no document loaded")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
