package booking

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateRequester is returned when the insert hits the open-booking
	// uniqueness constraint: the requester already has a pending booking.
	ErrDuplicateRequester = errors.New("booking.repository: requester already has an open booking")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidStatus is returned on an attempt to set an unknown status.
	ErrInvalidStatus = errors.New("booking.repository: invalid booking status")
)
