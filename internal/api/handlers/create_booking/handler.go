package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	createBooking "github.com/krish-ktm/clinic-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date format, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid slot time format, expected e.g. 10:30 AM"
	msgPastDate           = "the booking date is in the past"
	msgWeekend            = "weekend bookings are not allowed"
	msgDateTooSoon        = "the booking date is too soon"
	msgDateTooFar         = "the booking date is too far ahead"
	msgDayNotWorking      = "the clinic does not take bookings on this day"
	msgDateClosed         = "the clinic is closed on this date"
	msgUnknownSlot        = "no such time slot exists on this day"
	msgSlotFull           = "this slot is fully booked, please choose another time"
	msgDuplicateBooking   = "you already have an upcoming appointment"
	msgCapacityRaceLost   = "the slot filled up while booking, please choose another time"
	msgStorageUnavailable = "the booking could not be saved, please try again"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if _, dateErr := time.Parse(domain.DateFormat, req.BookingDate); dateErr != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrPastDateNotAllowed):
			h.logger.Warn("POST /bookings - Past date: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrWeekendNotAllowed):
			h.logger.Warn("POST /bookings - Weekend: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, msgWeekend)

		case errors.Is(err, createBooking.ErrDateTooSoon):
			h.logger.Warn("POST /bookings - Date too soon: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooSoon)

		case errors.Is(err, createBooking.ErrDateTooFarAhead):
			h.logger.Warn("POST /bookings - Date too far ahead: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrDayNotWorking):
			h.logger.Warn("POST /bookings - Day not working: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, msgDayNotWorking)

		case errors.Is(err, createBooking.ErrDateClosed):
			h.logger.Warn("POST /bookings - Date closed: flow=%s, date=%s", req.Flow, req.BookingDate)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrUnknownSlot):
			h.logger.Warn("POST /bookings - Unknown slot: flow=%s, date=%s, slot=%s", req.Flow, req.BookingDate, req.SlotTime)
			handlers.RespondBadRequest(w, msgUnknownSlot)

		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: flow=%s, date=%s, slot=%s", req.Flow, req.BookingDate, req.SlotTime)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createBooking.ErrDuplicateUpcomingBooking):
			h.logger.Warn("POST /bookings - Duplicate upcoming booking: flow=%s, contact=%s", req.Flow, req.ContactNumber)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrCapacityExceededAtWrite):
			h.logger.Warn("POST /bookings - Capacity race lost: flow=%s, date=%s, slot=%s", req.Flow, req.BookingDate, req.SlotTime)
			handlers.RespondConflict(w, msgCapacityRaceLost)

		case errors.Is(err, createBooking.ErrStorageUnavailable):
			h.logger.Error("POST /bookings - Storage unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: flow=%s, error=%v", req.Flow, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, flow=%s", result.ID, req.Flow)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
