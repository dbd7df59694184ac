package schedule

import "errors"

var (
	// ErrDayNotFound is returned when the weekday has no configuration.
	ErrDayNotFound = errors.New("working day not found")

	// ErrClosureNotFound is returned when the closure date does not exist.
	ErrClosureNotFound = errors.New("closure date not found")

	// ErrDuplicateClosure is returned when the date is already in the set.
	ErrDuplicateClosure = errors.New("closure date already exists")

	// ErrInvalidInput is returned on malformed input data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on internal service errors.
	ErrInternal = errors.New("service: internal error")
)
