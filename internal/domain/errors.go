package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, or when the caller is not allowed to see it.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. end not after start, unknown category, bad paging).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a booking cannot be created because the item
// is unavailable, belongs to the booker, or is already reserved for an
// overlapping interval.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrAlreadyDecided is returned when approve/reject targets a booking that
// has already left the WAITING state.
var ErrAlreadyDecided = errors.New("booking already decided")
