package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	getAvailability "github.com/krish-ktm/clinic-booking-service/internal/usecase/get_availability"
)

const (
	msgInvalidFlow        = "invalid flow, expected mr or patient"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgStorageUnavailable = "availability could not be read, please try again"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?flow={flow}&date={date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	flow := domain.Flow(r.URL.Query().Get("flow"))
	if !flow.IsValid() {
		h.logger.Warn("GET /availability - Invalid flow: %q", r.URL.Query().Get("flow"))
		handlers.RespondBadRequest(w, msgInvalidFlow)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		Flow: flow,
		Date: date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailability.ErrStorageUnavailable):
			h.logger.Error("GET /availability - Storage unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)

		default:
			h.logger.Error("GET /availability - Failed to read availability: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
