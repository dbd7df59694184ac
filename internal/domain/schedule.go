package domain

import (
	"fmt"
	"time"

	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Slot is a named, capacity-bounded booking target within a working day.
type Slot struct {
	Time        types.TimeString
	MaxBookings int
}

// WorkingDay is the per-weekday schedule configuration.
type WorkingDay struct {
	Day       time.Weekday
	IsWorking bool
	Slots     []Slot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable reports whether the day accepts bookings at all. A day marked
// working with no slots configured yields no valid booking targets; that is a
// policy decision, not a configuration accident to paper over.
func (d *WorkingDay) IsBookable() bool {
	return d.IsWorking && len(d.Slots) > 0
}

// FindSlot returns the slot whose label matches exactly, or nil.
func (d *WorkingDay) FindSlot(label types.TimeString) *Slot {
	for i := range d.Slots {
		if d.Slots[i].Time == label {
			return &d.Slots[i]
		}
	}
	return nil
}

// ValidateSlots checks a slot list for administration updates: every label
// must parse as a clock time, labels must be unique within the day and every
// capacity must be positive.
func ValidateSlots(slots []Slot) error {
	if len(slots) > MaxSlotsPerDay {
		return fmt.Errorf("too many slots: %d (max %d)", len(slots), MaxSlotsPerDay)
	}

	seen := make(map[types.TimeString]struct{}, len(slots))
	for _, slot := range slots {
		if err := slot.Time.Validate(); err != nil {
			return fmt.Errorf("invalid slot time %q: %v", slot.Time, err)
		}
		if _, dup := seen[slot.Time]; dup {
			return fmt.Errorf("duplicate slot time %q", slot.Time)
		}
		seen[slot.Time] = struct{}{}

		if slot.MaxBookings < MinSlotCapacity || slot.MaxBookings > MaxSlotCapacity {
			return fmt.Errorf("slot %q: maxBookings must be between %d and %d",
				slot.Time, MinSlotCapacity, MaxSlotCapacity)
		}
	}

	return nil
}

// ParseWeekday converts a weekday name (e.g. "Monday") into time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", name)
}

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether two timestamps fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsDateInPast reports whether the date is before today (date comparison,
// time of day ignored).
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
