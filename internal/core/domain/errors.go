package domain

import "errors"

// Request-level failures shared by every entity.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrSessionNotFound = errors.New("session not found")
)
