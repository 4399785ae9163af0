package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
)

// UseCase финализация резервации: PENDING -> CONFIRMED с освобождением
// блокировки слота
type UseCase struct {
	bookingRepo BookingRepository
	locker      SlotLocker
	cacheStore  CacheStore
	logger      Logger
}

// NewUseCase создает новый экземпляр use case подтверждения
func NewUseCase(
	bookingRepo BookingRepository,
	locker SlotLocker,
	cacheStore CacheStore,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		locker:      locker,
		cacheStore:  cacheStore,
		logger:      logger,
	}
}

// Execute подтверждает резервацию бронирования
func (uc *UseCase) Execute(ctx context.Context, bookingID int64) error {
	uc.logger.Info("ConfirmBooking: confirming booking id=%d", bookingID)

	if bookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	// 1. Загружаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmBooking: booking id=%d not found", bookingID)
			return ErrSessionExpired
		}
		uc.logger.Error("ConfirmBooking: failed to get booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.Status != domain.StatusPending {
		uc.logger.Warn("ConfirmBooking: booking id=%d is not pending (status=%s)", bookingID, booking.Status)
		return ErrSessionExpired
	}

	// 2. Условный переход PENDING -> CONFIRMED
	// Guard по текущему статусу защищает от гонки со sweeper'ом:
	// ноль измененных строк означает, что переход выполнил кто-то другой
	changed, err := uc.bookingRepo.UpdateStatusFrom(ctx, bookingID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to update status for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}
	if changed == 0 {
		uc.logger.Warn("ConfirmBooking: booking id=%d was transitioned concurrently", bookingID)
		return ErrSessionExpired
	}

	// 3. Освобождаем блокировку слота по сохраненным ключу и токену
	// Строго после перехода статуса. Неудача не фатальна: запись в lock store
	// самоустранится по TTL
	if booking.LockKey != nil && booking.LockToken != nil {
		released, err := uc.locker.ReleaseLock(ctx, *booking.LockKey, *booking.LockToken)
		if err != nil {
			uc.logger.Error("ConfirmBooking: failed to release lock %s for booking id=%d: %v",
				*booking.LockKey, bookingID, err)
		} else if !released {
			uc.logger.Warn("ConfirmBooking: lock %s for booking id=%d was already gone",
				*booking.LockKey, bookingID)
		}
	}

	// 4. Инвалидируем кэш бронирования, чтобы читатели не видели старый статус
	if err := uc.cacheStore.Delete(ctx, cache.BookingKey(bookingID)); err != nil {
		uc.logger.Warn("ConfirmBooking: failed to invalidate cache for booking id=%d: %v", bookingID, err)
	}

	uc.logger.Info("ConfirmBooking: booking id=%d confirmed", bookingID)
	return nil
}
