package expire_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindStalePending(ctx context.Context, olderThan time.Time) ([]*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (int64, error)
}

// SlotLocker интерфейс lock store для освобождения блокировок слотов
type SlotLocker interface {
	ReleaseLock(ctx context.Context, lockKey, token string) (bool, error)
}

// CacheStore интерфейс кэша для инвалидации записей бронирований
type CacheStore interface {
	Delete(ctx context.Context, key string) error
}

// Metrics интерфейс метрик фоновой очистки
type Metrics interface {
	IncExpiredBookings()
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
