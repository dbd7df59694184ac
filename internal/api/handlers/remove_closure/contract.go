package remove_closure

import "context"

type ScheduleService interface {
	RemoveClosure(ctx context.Context, setName, dateStr string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
