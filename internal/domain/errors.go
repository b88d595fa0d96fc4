package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. Operations wrap them
// with context ("%w: treat %q"); callers match with errors.Is.

var (
	// Lookup errors
	ErrNotFound      = errors.New("not found")
	ErrDuplicateUser = errors.New("user already exists")

	// Economy errors
	ErrAlreadyPurchased   = errors.New("already purchased")
	ErrInsufficientPoints = errors.New("insufficient points")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Storage errors. The only class that is not a rule violation.
	ErrPersistence = errors.New("persistence failure")
)
