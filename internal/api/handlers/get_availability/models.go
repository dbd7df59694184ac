package get_availability

import (
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	getAvailability "github.com/krish-ktm/clinic-booking-service/internal/usecase/get_availability"
)

// SlotAvailabilityResponse is one slot's remaining capacity.
type SlotAvailabilityResponse struct {
	Time            string `json:"time"` // "10:30 AM"
	MaxBookings     int    `json:"maxBookings"`
	CurrentBookings int    `json:"currentBookings"`
	Remaining       int    `json:"remaining"`
	Available       bool   `json:"available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Flow         string                     `json:"flow"`
	Date         string                     `json:"date"`
	Open         bool                       `json:"open"`
	ClosedReason *string                    `json:"closedReason,omitempty"`
	Slots        []SlotAvailabilityResponse `json:"slots"`
}

// FromUseCaseResponse converts the use case response into the HTTP response.
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotAvailabilityResponse, 0, len(resp.Slots))
	for i := range resp.Slots {
		s := &resp.Slots[i]
		slots = append(slots, SlotAvailabilityResponse{
			Time:            s.Time.String(),
			MaxBookings:     s.MaxBookings,
			CurrentBookings: s.CurrentBookings,
			Remaining:       s.Remaining,
			Available:       !s.IsFull(),
		})
	}

	return &AvailabilityResponse{
		Flow:         string(resp.Flow),
		Date:         resp.Date.Format(domain.DateFormat),
		Open:         resp.Open,
		ClosedReason: resp.ClosedReason,
		Slots:        slots,
	}
}
