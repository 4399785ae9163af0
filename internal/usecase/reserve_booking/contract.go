package reserve_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindOverlapping(ctx context.Context, serviceID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)
}

// SlotLocker интерфейс lock store для блокировок слотов
type SlotLocker interface {
	AcquireLock(ctx context.Context, resourceID string, ttl time.Duration) (lockKey, token string, err error)
	ReleaseLock(ctx context.Context, lockKey, token string) (bool, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Metrics интерфейс метрик, необходимых координатору
type Metrics interface {
	IncLockContention()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
