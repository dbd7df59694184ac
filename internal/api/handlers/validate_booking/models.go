package validate_booking

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	validateBooking "github.com/krish-ktm/clinic-booking-service/internal/usecase/validate_booking"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	Flow          string `json:"flow"`
	BookingDate   string `json:"bookingDate"` // "2025-10-15"
	SlotTime      string `json:"slotTime"`    // "10:30 AM"
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
}

// ValidationResponse HTTP response model
type ValidationResponse struct {
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToUseCaseRequest converts the HTTP request into the use case model.
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.NewTimeStringFromString(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &validateBooking.Request{
		Flow:          domain.Flow(r.Flow),
		Date:          bookingDate,
		SlotTime:      slotTime,
		Name:          r.Name,
		ContactNumber: r.ContactNumber,
	}, nil
}

// FromUseCaseResponse converts the use case verdict into the HTTP response.
func FromUseCaseResponse(resp *validateBooking.Response) *ValidationResponse {
	return &ValidationResponse{
		OK:      resp.OK,
		Reason:  string(resp.Reason),
		Message: resp.Message,
	}
}
