package expire_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
)

// Sweeper фоновая очистка брошенных резерваций
//
// Компенсирует клиентов, которые так и не вызвали confirm: PENDING
// бронирования старше таймаута переводятся в EXPIRED, их блокировки
// освобождаются. Это единственный механизм, ограничивающий время,
// на которое удержанный слот блокирует других пользователей
type Sweeper struct {
	bookingRepo        BookingRepository
	locker             SlotLocker
	cacheStore         CacheStore
	reservationTimeout time.Duration
	interval           time.Duration
	metrics            Metrics
	timeProvider       TimeProvider
	logger             Logger
}

// NewSweeper создает новый экземпляр фоновой очистки
// metrics может быть nil, если сбор метрик выключен
func NewSweeper(
	bookingRepo BookingRepository,
	locker SlotLocker,
	cacheStore CacheStore,
	reservationTimeout time.Duration,
	interval time.Duration,
	metrics Metrics,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		bookingRepo:        bookingRepo,
		locker:             locker,
		cacheStore:         cacheStore,
		reservationTimeout: reservationTimeout,
		interval:           interval,
		metrics:            metrics,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Run запускает цикл очистки до отмены контекста
// Запускается в единственной горутине; повторный запуск параллельно
// безопасен только благодаря условным переходам статуса в RunOnce
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("ExpireBookings: sweeper started, interval=%s, timeout=%s", s.interval, s.reservationTimeout)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ExpireBookings: sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход очистки
// Ошибки отдельных бронирований логируются, проход продолжается
func (s *Sweeper) RunOnce(ctx context.Context) {
	threshold := s.timeProvider.Now().Add(-s.reservationTimeout)

	stale, err := s.bookingRepo.FindStalePending(ctx, threshold)
	if err != nil {
		s.logger.Error("ExpireBookings: failed to find stale pending bookings: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	s.logger.Info("ExpireBookings: found %d stale pending bookings", len(stale))

	for _, booking := range stale {
		s.expireBooking(ctx, booking)
	}
}

// expireBooking переводит одно бронирование PENDING -> EXPIRED
// и освобождает его блокировку
func (s *Sweeper) expireBooking(ctx context.Context, booking *domain.Booking) {
	changed, err := s.bookingRepo.UpdateStatusFrom(ctx, booking.ID, domain.StatusPending, domain.StatusExpired)
	if err != nil {
		s.logger.Error("ExpireBookings: failed to expire booking id=%d: %v", booking.ID, err)
		return
	}
	if changed == 0 {
		// Бронирование успели подтвердить или отменить, трогать нечего
		s.logger.Info("ExpireBookings: booking id=%d already transitioned, skipping", booking.ID)
		return
	}

	// Освобождение best-effort: потерянная запись в lock store
	// самоустранится по собственному TTL
	if booking.LockKey != nil && booking.LockToken != nil {
		released, err := s.locker.ReleaseLock(ctx, *booking.LockKey, *booking.LockToken)
		if err != nil {
			s.logger.Error("ExpireBookings: failed to release lock %s for booking id=%d: %v",
				*booking.LockKey, booking.ID, err)
		} else if !released {
			s.logger.Warn("ExpireBookings: lock %s for booking id=%d was already gone",
				*booking.LockKey, booking.ID)
		}
	}

	if err := s.cacheStore.Delete(ctx, cache.BookingKey(booking.ID)); err != nil {
		s.logger.Warn("ExpireBookings: failed to invalidate cache for booking id=%d: %v", booking.ID, err)
	}

	if s.metrics != nil {
		s.metrics.IncExpiredBookings()
	}

	s.logger.Info("ExpireBookings: released abandoned booking id=%d", booking.ID)
}
