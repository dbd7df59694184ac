package domain

// RejectionReason is the stable, machine-readable kind attached to a booking
// rejection. Callers surface the paired human-readable message; the kind is
// for programmatic handling (e.g. refreshing availability on capacity
// conflicts).
type RejectionReason string

const (
	ReasonPastDateNotAllowed       RejectionReason = "PastDateNotAllowed"
	ReasonWeekendNotAllowed        RejectionReason = "WeekendNotAllowed"
	ReasonDateTooSoon              RejectionReason = "DateTooSoon"
	ReasonDateTooFarAhead          RejectionReason = "DateTooFarAhead"
	ReasonDayNotWorking            RejectionReason = "DayNotWorking"
	ReasonDateClosed               RejectionReason = "DateClosed"
	ReasonUnknownSlot              RejectionReason = "UnknownSlot"
	ReasonSlotFull                 RejectionReason = "SlotFull"
	ReasonDuplicateUpcomingBooking RejectionReason = "DuplicateUpcomingBooking"
	ReasonCapacityExceededAtWrite  RejectionReason = "CapacityExceededAtWrite"
)
