package domain

import (
	"sort"

	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// SlotAvailability is the remaining capacity of one slot on one date.
type SlotAvailability struct {
	Time            types.TimeString
	MaxBookings     int
	CurrentBookings int
	Remaining       int
}

// IsFull reports whether the slot has no remaining spots. Full slots are still
// returned to callers so the UI can show them as full rather than hide them.
func (s *SlotAvailability) IsFull() bool {
	return s.Remaining <= 0
}

// ComputeAvailability produces the remaining capacity per slot for one date.
// Pure function over the day's configuration and the ledger rows for that
// date: only pending bookings whose slot label matches exactly are counted.
// The label is the canonical key; parsed times are used for ordering only.
// Slots come back in ascending clock-time order regardless of configured
// order. A non-bookable day yields an empty list.
func ComputeAvailability(day *WorkingDay, bookingsForDate []*Booking) []SlotAvailability {
	if day == nil || !day.IsBookable() {
		return []SlotAvailability{}
	}

	counts := make(map[types.TimeString]int, len(day.Slots))
	for _, booking := range bookingsForDate {
		if !booking.CountsTowardCapacity() {
			continue
		}
		counts[booking.SlotTime]++
	}

	result := make([]SlotAvailability, 0, len(day.Slots))
	for _, slot := range day.Slots {
		current := counts[slot.Time]
		result = append(result, SlotAvailability{
			Time:            slot.Time,
			MaxBookings:     slot.MaxBookings,
			CurrentBookings: current,
			Remaining:       slot.MaxBookings - current,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time.IsBefore(result[j].Time)
	})

	return result
}
