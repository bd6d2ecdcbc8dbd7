package db

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record
	ErrNotFound = errors.New("record not found")

	// ErrConstraint is returned when a write violates a uniqueness or
	// integrity constraint
	ErrConstraint = errors.New("constraint violation")

	// ErrUnsupported is returned by operations a backend cannot perform
	ErrUnsupported = errors.New("operation not supported by backend")
)
