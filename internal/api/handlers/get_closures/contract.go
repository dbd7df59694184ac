package get_closures

import (
	"context"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	ListClosures(ctx context.Context, setName string, fromDate time.Time) (*models.ClosureListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
