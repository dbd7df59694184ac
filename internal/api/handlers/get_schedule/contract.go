package get_schedule

import (
	"context"

	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWeek(ctx context.Context) (*models.WeekResponse, error)
	GetWorkingDay(ctx context.Context, dayName string) (*models.WorkingDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
