package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrBackendUnavailable indicates a remote backend could not be reached
	// or answered with a server-side failure.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
