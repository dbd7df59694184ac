package update_schedule

import (
	"context"

	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateWorkingDay(ctx context.Context, dayName string, req *models.UpdateWorkingDayRequest) (*models.WorkingDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
