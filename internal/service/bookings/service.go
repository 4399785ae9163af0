package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// defaultPageLimit размер страницы истории по умолчанию
const defaultPageLimit = 20

// maxPageLimit максимальный размер страницы истории
const maxPageLimit = 100

// Service сервис чтения и отмены бронирований
type Service struct {
	bookingRepo BookingRepository
	locker      SlotLocker
	cacheStore  CacheStore
	cacheTTL    time.Duration
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	locker SlotLocker,
	cacheStore CacheStore,
	cacheTTL time.Duration,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		locker:      locker,
		cacheStore:  cacheStore,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID через read-through кэш
// Пользователь видит только собственные бронирования
// Кэш не авторитетен: все мутирующие операции инвалидируют запись
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	cacheKey := cache.BookingKey(id)

	var cached models.BookingResponse
	err := s.cacheStore.Get(ctx, cacheKey, &cached)
	if err == nil {
		if cached.UserID != userID {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, ErrAccessDenied
		}
		s.logger.Info("GetByID: booking id=%d served from cache", id)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Деградация кэша не блокирует чтение, идем в ledger
		s.logger.Warn("GetByID: cache error for booking id=%d: %v", id, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	response := models.FromDomainBooking(booking)

	if err := s.cacheStore.Set(ctx, cacheKey, response, s.cacheTTL); err != nil {
		s.logger.Warn("GetByID: failed to cache booking id=%d: %v", id, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return response, nil
}

// GetUserBookings получает страницу истории бронирований пользователя
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, page=%d, limit=%d",
		req.UserID, req.Page, req.Limit)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, limit, offset)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	total, err := s.bookingRepo.CountByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("GetUserBookings: count error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - count error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d of %d bookings for user=%d", len(bookings), total, req.UserID)
	return models.FromDomainBookingList(bookings, total, page, limit), nil
}

// Cancel отменяет бронирование пользователя
// Отменить можно только pending или confirmed бронирование, и только своё.
// Для pending бронирования дополнительно освобождается блокировка слота
func (s *Service) Cancel(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", userID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Условный переход из текущего статуса: при нуле измененных строк
	// бронирование успел перевести кто-то другой (sweeper или confirm)
	changed, err := s.bookingRepo.UpdateStatusFrom(ctx, bookingID, booking.Status, domain.StatusCancelled)
	if err != nil {
		s.logger.Error("Cancel: failed to update status for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - failed to update status: %v", ErrInternal, err)
	}
	if changed == 0 {
		s.logger.Warn("Cancel: booking id=%d was transitioned concurrently", bookingID)
		return ErrCannotCancel
	}

	// Отмена pending резервации освобождает слот немедленно,
	// не дожидаясь TTL блокировки
	if booking.Status == domain.StatusPending && booking.LockKey != nil && booking.LockToken != nil {
		released, err := s.locker.ReleaseLock(ctx, *booking.LockKey, *booking.LockToken)
		if err != nil {
			s.logger.Error("Cancel: failed to release lock %s for booking id=%d: %v",
				*booking.LockKey, bookingID, err)
		} else if !released {
			s.logger.Warn("Cancel: lock %s for booking id=%d was already gone", *booking.LockKey, bookingID)
		}
	}

	if err := s.cacheStore.Delete(ctx, cache.BookingKey(bookingID)); err != nil {
		s.logger.Warn("Cancel: failed to invalidate cache for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled by user=%d", bookingID, userID)
	return nil
}
