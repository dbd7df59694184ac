package get_closures

import (
	"errors"
	"net/http"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule"
)

const (
	msgInvalidSet  = "invalid closure set, expected provider or facility"
	msgInvalidDate = "invalid fromDate format, expected YYYY-MM-DD"
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

// Handle GET /api/v1/closures?set={set}&fromDate={date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fromDate := time.Now()
	if value := query.Get("fromDate"); value != "" {
		parsed, err := time.Parse(domain.DateFormat, value)
		if err != nil {
			h.logger.Warn("GET /closures - Invalid fromDate: %q", value)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		fromDate = parsed
	}

	result, err := h.service.ListClosures(r.Context(), query.Get("set"), fromDate)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /closures - Invalid set: %q", query.Get("set"))
			handlers.RespondBadRequest(w, msgInvalidSet)

		default:
			h.logger.Error("GET /closures - Failed to list closures: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
