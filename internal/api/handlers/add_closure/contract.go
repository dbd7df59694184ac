package add_closure

import (
	"context"

	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	AddClosure(ctx context.Context, req *models.AddClosureRequest) (*models.ClosureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
