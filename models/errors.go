package models

import (
	"errors"
)

// Reject reasons surfaced to guests and admins. Handlers translate these into
// user-visible messages; none of them should ever crash a request.
var (
	ErrValidation          = errors.New("validation failed")
	ErrSeatUnavailable     = errors.New("seat unavailable")
	ErrSeatTaken           = errors.New("seat taken")
	ErrAlreadySuggested    = errors.New("already suggested")
	ErrScreeningNotFound   = errors.New("screening not found")
	ErrSuggestionNotFound  = errors.New("suggestion not found")
	ErrResolverUnavailable = errors.New("metadata resolver unavailable")
	ErrStoreUnavailable    = errors.New("record store unavailable")
)
