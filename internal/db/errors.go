package db

import "errors"

var (
	// ErrNotFound is returned when an operation references an id that
	// does not exist (or, for snooze, is no longer pending).
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for input that fails shape or length
	// checks before touching the database.
	ErrValidation = errors.New("invalid input")
)
