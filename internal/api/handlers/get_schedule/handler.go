package get_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule"
)

const (
	msgInvalidWeekday = "invalid weekday, expected e.g. Monday"
	msgDayNotFound    = "working day not configured"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleWeek GET /api/v1/schedule
func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetWeek(r.Context())
	if err != nil {
		h.logger.Error("GET /schedule - Failed to fetch weekly schedule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDay GET /api/v1/schedule/{day}
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	day := mux.Vars(r)["day"]

	result, err := h.service.GetWorkingDay(r.Context(), day)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /schedule/{day} - Invalid weekday: %q", day)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, schedule.ErrDayNotFound):
			h.logger.Warn("GET /schedule/{day} - Day not configured: %s", day)
			handlers.RespondNotFound(w, msgDayNotFound)

		default:
			h.logger.Error("GET /schedule/{day} - Failed to fetch %s: %v", day, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
