package entities

import "errors"

// Sentinel errors shared across layers. Handlers map these to HTTP status
// codes; everything else surfaces as a generic internal error.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
	ErrSlugTaken   = errors.New("slug already taken")
)
