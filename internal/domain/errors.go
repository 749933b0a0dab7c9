package domain

import "errors"

// Error kinds returned by core operations. Callers classify with errors.Is;
// anything not wrapping one of these is an unexpected fault.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
)
