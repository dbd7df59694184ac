package validate_booking

import "errors"

var (
	// ErrInvalidInput is returned on malformed input data.
	ErrInvalidInput = errors.New("validate_booking: invalid input data")

	// ErrStorageUnavailable is returned on transient storage failures.
	ErrStorageUnavailable = errors.New("validate_booking: storage unavailable")
)
