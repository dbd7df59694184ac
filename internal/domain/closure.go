package domain

import "time"

// ClosureSet names one of the two independent closure calendars.
type ClosureSet string

const (
	// ClosureSetProvider closes a date for the MR flow only.
	ClosureSetProvider ClosureSet = "provider"
	// ClosureSetFacility closes a date for every flow.
	ClosureSetFacility ClosureSet = "facility"
)

// IsValid reports whether the set name is known.
func (s ClosureSet) IsValid() bool {
	return s == ClosureSetProvider || s == ClosureSetFacility
}

// AppliesTo reports whether a closure in this set blocks the given flow.
// Facility closures block both flows; provider closures block MRs only.
func (s ClosureSet) AppliesTo(flow Flow) bool {
	if s == ClosureSetFacility {
		return true
	}
	return flow == FlowMR
}

// ClosureDate is a specific calendar date excluded from booking.
type ClosureDate struct {
	ID        int64
	Set       ClosureSet
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// ClosureCalendar is a window of closure dates fetched in one read, looked up
// per date afterwards.
type ClosureCalendar struct {
	entries map[string]ClosureDate
}

// NewClosureCalendar indexes closure dates by day. Later duplicates win, which
// cannot happen for a single set since dates are unique within it.
func NewClosureCalendar(dates []ClosureDate) *ClosureCalendar {
	entries := make(map[string]ClosureDate, len(dates))
	for _, d := range dates {
		entries[closureKey(d.Set, d.Date)] = d
	}
	return &ClosureCalendar{entries: entries}
}

// Closed returns the closure blocking the given flow on the given date, if
// any. Facility closures are checked first so their reason wins for MRs when
// both sets contain the date.
func (c *ClosureCalendar) Closed(date time.Time, flow Flow) (*ClosureDate, bool) {
	if entry, ok := c.entries[closureKey(ClosureSetFacility, date)]; ok {
		return &entry, true
	}
	if flow == FlowMR {
		if entry, ok := c.entries[closureKey(ClosureSetProvider, date)]; ok {
			return &entry, true
		}
	}
	return nil, false
}

func closureKey(set ClosureSet, date time.Time) string {
	return string(set) + "/" + DateOnly(date).Format(DateFormat)
}
