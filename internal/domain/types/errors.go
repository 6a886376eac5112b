package types

import "errors"

var (
	// Validation errors: bad input, never reaches the store.
	ErrMissingField     = errors.New("missing field")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("mismatch")
	ErrEmptyLocation    = errors.New("starting point and destination are required")

	// Conflict
	ErrEmailExists = errors.New("email exists")

	// Not found
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")

	// Store errors: connectivity or query failure.
	ErrStore        = errors.New("store failure")
	ErrStoreTimeout = errors.New("store timeout")
)
