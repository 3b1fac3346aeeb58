package matching

import "errors"

// Error taxonomy surfaced by engine operations. Handlers map these onto
// HTTP status codes; storage implementations wrap driver errors into them.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)
