package monthly_availability

import (
	"context"
	"time"
)

type AvailabilityUseCase interface {
	Monthly(ctx context.Context, serviceID int64, month time.Month, year int) (map[string]bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
