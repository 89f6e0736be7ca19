package apperrors

import "errors"

// Sentinel errors shared across domain services. Services wrap these with
// fmt.Errorf("%w: ...") so controllers can map them to HTTP status codes
// with errors.Is.
var (
	// ErrNotFound means an entity id could not be resolved.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is illegal for the entity's
	// current status (using an already-used ticket, selling a seat that is
	// not available, completing a checkout that never went pending).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means the input was malformed (unparsable QR payload,
	// missing required checkout fields).
	ErrValidation = errors.New("validation error")

	// ErrUpstream means a backend or payment call was rejected.
	ErrUpstream = errors.New("upstream failure")
)
