package add_closure

import (
	"errors"
	"net/http"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgDuplicateClosure   = "this date is already closed in the given set"
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

// Handle POST /api/v1/closures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.AddClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddClosure(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /closures - Invalid closure: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrDuplicateClosure):
			h.logger.Warn("POST /closures - Duplicate closure: set=%s, date=%s", req.Set, req.Date)
			handlers.RespondConflict(w, msgDuplicateClosure)

		default:
			h.logger.Error("POST /closures - Failed to add closure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /closures - Closure added: set=%s, date=%s", req.Set, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
