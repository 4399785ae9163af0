package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset uint64) ([]*domain.Booking, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (int64, error)
}

// SlotLocker интерфейс lock store для освобождения блокировки слота
type SlotLocker interface {
	ReleaseLock(ctx context.Context, lockKey, token string) (bool, error)
}

// CacheStore интерфейс read-through кэша бронирований
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
