package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "3:04 PM"    // 12-hour slot labels, e.g. "10:30 AM"
)

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 100

	MaxSlotsPerDay = 48

	MaxNameLength               = 120
	MaxContactNumberLength      = 20
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxClosureReasonLength      = 200
	MaxBookingRestrictionDays   = 365
)

// InactiveStatuses lists statuses that never count toward slot capacity.
// Used when filtering ledger reads for availability computation.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
