package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input or an
	// illegal state transition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks a redundant terminal transition attempt. Callers
	// absorb it; the end state already matches intent.
	ErrConflict = errors.New("conflict")
)
