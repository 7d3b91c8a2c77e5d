package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// ErrValidation covers missing or invalid request fields.
	ErrValidation = errors.New("validation error")
	// ErrForbidden means the caller is authenticated but not allowed to
	// touch the resource (not the owner, or bad payment signature).
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound covers unknown and malformed ids alike.
	ErrNotFound = errors.New("not found")
)
