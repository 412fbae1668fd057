package service

import "errors"

// Failure taxonomy of the schedule store. All are surfaced synchronously
// to the caller; match with errors.Is.
var (
	// ErrNotFound signals that a referenced schedule or employee record
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals a missing or out-of-range required field.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmployee signals an employee id already present on the
	// schedule's roster.
	ErrDuplicateEmployee = errors.New("employee already exists in schedule")

	// ErrCannotRemoveLastEmployee guards the non-empty roster invariant.
	ErrCannotRemoveLastEmployee = errors.New("cannot remove the last employee")

	// ErrUnknownEmployee signals an entry referencing an employee absent
	// from the schedule's roster.
	ErrUnknownEmployee = errors.New("employee not found in schedule")
)
