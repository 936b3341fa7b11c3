package offer

import "errors"

var (
	// ErrValidation is returned when a normalized record violates a
	// catalog invariant (e.g. non-positive credit value). Such records
	// are rejected and never persisted.
	ErrValidation = errors.New("offer validation failed")

	// ErrNotFound is returned by point lookups for unknown ids.
	ErrNotFound = errors.New("offer not found")

	// ErrStore wraps catalog store failures. A store failure during a
	// batch commit aborts that run only; prior catalog state is intact.
	ErrStore = errors.New("catalog store error")

	// ErrInvalidCriteria is returned when search input fails validation.
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)
