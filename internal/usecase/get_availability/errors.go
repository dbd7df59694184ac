package get_availability

import "errors"

var (
	// ErrInvalidInput is returned on malformed input data.
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrStorageUnavailable is returned on transient storage failures.
	ErrStorageUnavailable = errors.New("get_availability: storage unavailable")
)
