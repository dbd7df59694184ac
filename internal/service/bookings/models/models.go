package models

import (
	"errors"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus is returned on an unknown status string.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidFlow is returned on an unknown flow string.
	ErrInvalidFlow = errors.New("invalid booking flow")
)

// Request models

// CancelBookingRequest cancels a pending booking.
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest moves a booking to a new lifecycle status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListBookingsRequest filters the ledger for the admin views.
type ListBookingsRequest struct {
	Flow            *string    `json:"flow,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter converts the request into a ledger filter.
func (r *ListBookingsRequest) ToDomainFilter() (domain.LedgerFilter, error) {
	filter := domain.LedgerFilter{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Flow != nil {
		flow, err := ToDomainFlow(*r.Flow)
		if err != nil {
			return filter, err
		}
		filter.Flow = &flow
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetRequesterBookingsRequest lists the history of one requester.
type GetRequesterBookingsRequest struct {
	Flow          string  `json:"flow"`
	Name          string  `json:"name"`
	ContactNumber string  `json:"contactNumber"`
	Status        *string `json:"status,omitempty"`
}

// Response models

// BookingResponse is the booking DTO.
type BookingResponse struct {
	ID            int64   `json:"id"`
	Flow          string  `json:"flow"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	SlotTime      string  `json:"slotTime"`    // "10:30 AM"
	Name          string  `json:"name"`
	ContactNumber string  `json:"contactNumber"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse is the booking list DTO.
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Conversion helpers

// FromDomainBooking converts the domain model into a DTO.
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Flow:               string(b.Flow),
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		SlotTime:           b.SlotTime.String(),
		Name:               b.Name,
		ContactNumber:      b.ContactNumber,
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList converts a list of domain models into a DTO.
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}

// ToDomainBookingStatus parses and validates a status string.
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainFlow parses and validates a flow string.
func ToDomainFlow(flow string) (domain.Flow, error) {
	f := domain.Flow(flow)
	if !f.IsValid() {
		return "", ErrInvalidFlow
	}
	return f, nil
}
