package lifecycle

import "errors"

// Sentinel errors returned by the Manager. Handlers translate these into
// HTTP status codes: validation failures become 400, state conflicts 403
// or 409, missing rows 404 and driver exhaustion 503.
var (
	ErrNotFound          = errors.New("ride request not found")
	ErrNoDriverAvailable = errors.New("no drivers are currently available")
	ErrInvalidStatus     = errors.New("unknown status value")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrNotEditable       = errors.New("request can no longer be modified")
	ErrNotCancellable    = errors.New("request is already completed or cancelled")
	ErrInvalidRating     = errors.New("rating must be an integer between 1 and 5")
	ErrNotCompleted      = errors.New("request not completed")
	ErrAlreadyRated      = errors.New("this ride has already been rated")
	ErrMissingFields     = errors.New("missing required fields")
)
