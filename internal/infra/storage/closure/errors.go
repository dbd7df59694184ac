package closure

import "errors"

var (
	// ErrClosureNotFound is returned when the closure date does not exist.
	ErrClosureNotFound = errors.New("closure.repository: closure date not found")

	// ErrDuplicateClosure is returned when the date is already in the set.
	ErrDuplicateClosure = errors.New("closure.repository: date already closed in this set")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("closure.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("closure.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("closure.repository: failed to scan row")
)
