package get_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/internal/service/bookings"
	"github.com/krish-ktm/clinic-booking-service/internal/service/bookings/models"
)

const (
	msgInvalidDate   = "invalid date format, expected YYYY-MM-DD"
	msgInvalidFilter = "invalid filter parameters"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?flow=&startDate=&endDate=&status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if flow := query.Get("flow"); flow != "" {
		req.Flow = &flow
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	for param, target := range map[string]**time.Time{
		"startDate": &req.StartDate,
		"endDate":   &req.EndDate,
	} {
		if value := query.Get(param); value != "" {
			parsed, err := time.Parse(domain.DateFormat, value)
			if err != nil {
				h.logger.Warn("GET /bookings - Invalid %s: %q", param, value)
				handlers.RespondBadRequest(w, msgInvalidDate)
				return
			}
			*target = &parsed
		}
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
