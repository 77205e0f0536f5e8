package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a retry is requested with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrMalformedResponse indicates the reasoning service returned output
	// that could not be decoded into the expected schema, even after repair.
	ErrMalformedResponse = errors.New("malformed reasoning service response")

	// ErrEmptyResponse indicates the reasoning service returned no choices.
	ErrEmptyResponse = errors.New("empty reasoning service response")

	// ErrEnhancerRequired is returned when a query enhancer is not provided.
	ErrEnhancerRequired = errors.New("query enhancer required")
)
