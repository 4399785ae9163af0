package confirm_booking

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (int64, error)
}

// SlotLocker интерфейс lock store для освобождения блокировки слота
type SlotLocker interface {
	ReleaseLock(ctx context.Context, lockKey, token string) (bool, error)
}

// CacheStore интерфейс кэша для инвалидации записи бронирования
type CacheStore interface {
	Delete(ctx context.Context, key string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
