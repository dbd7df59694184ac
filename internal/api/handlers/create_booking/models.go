package create_booking

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	createBooking "github.com/krish-ktm/clinic-booking-service/internal/usecase/create_booking"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Flow          string  `json:"flow"`        // "mr" or "patient"
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	SlotTime      string  `json:"slotTime"`    // "10:30 AM"
	Name          string  `json:"name"`
	ContactNumber string  `json:"contactNumber"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	Flow          string  `json:"flow"`
	BookingDate   string  `json:"bookingDate"`
	SlotTime      string  `json:"slotTime"`
	Name          string  `json:"name"`
	ContactNumber string  `json:"contactNumber"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest converts the HTTP request into the use case model.
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.NewTimeStringFromString(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Flow:          domain.Flow(r.Flow),
		Date:          bookingDate,
		SlotTime:      slotTime,
		Name:          r.Name,
		ContactNumber: r.ContactNumber,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP response.
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		Flow:          string(resp.Flow),
		BookingDate:   resp.Date.Format(domain.DateFormat),
		SlotTime:      resp.SlotTime.String(),
		Name:          resp.Name,
		ContactNumber: resp.ContactNumber,
		Status:        string(resp.Status),
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
