package settings

import "errors"

var (
	// ErrSettingsNotFound is returned when the singleton row is missing.
	ErrSettingsNotFound = errors.New("settings.repository: booking settings not found")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
