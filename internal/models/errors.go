package models

import "errors"

// Error kinds surfaced to callers. Services wrap them with context via
// fmt.Errorf("...: %w", ...) so handlers can classify with errors.Is.
var (
	// ErrNotFound covers an absent entity and an ownership mismatch alike;
	// callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is an authorization policy violation
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is a payload constraint violation
	ErrValidation = errors.New("validation failed")

	// ErrQuery is a malformed search query
	ErrQuery = errors.New("malformed query")

	// ErrStorage is an object-store or search-index operation failure
	ErrStorage = errors.New("storage failure")
)
