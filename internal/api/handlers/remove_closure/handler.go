package remove_closure

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule"
)

const msgClosureNotFound = "closure date not found"

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

// Handle DELETE /api/v1/closures/{set}/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	set, date := vars["set"], vars["date"]

	if err := h.service.RemoveClosure(r.Context(), set, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /closures/{set}/{date} - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrClosureNotFound):
			h.logger.Warn("DELETE /closures/{set}/{date} - Not found: set=%s, date=%s", set, date)
			handlers.RespondNotFound(w, msgClosureNotFound)

		default:
			h.logger.Error("DELETE /closures/{set}/{date} - Failed to remove closure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /closures/{set}/{date} - Closure removed: set=%s, date=%s", set, date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
