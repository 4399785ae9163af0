package check_availability

import (
	"context"
	"time"
)

type AvailabilityUseCase interface {
	Check(ctx context.Context, serviceID int64, start, end time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
