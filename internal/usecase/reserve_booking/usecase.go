package reserve_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	catalogClient "github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// UseCase координатор резервации бронирования
//
// Протокол: блокировка слота -> повторная проверка конфликтов по ledger ->
// вставка PENDING бронирования с идентификацией блокировки. Блокировка
// сериализует записи для совпадающих дат заезда и защищает последовательность
// check-then-insert от lost update; авторитетный источник конфликтов -
// повторная проверка по ledger, потому что пересекающиеся диапазоны с разными
// датами заезда используют разные ключи блокировки
type UseCase struct {
	bookingRepo        BookingRepository
	catalogClient      CatalogServiceClient
	locker             SlotLocker
	reservationTimeout time.Duration
	metrics            Metrics
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр координатора резервации
// metrics может быть nil, если сбор метрик выключен
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	locker SlotLocker,
	reservationTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepo,
		catalogClient:      catalogClient,
		locker:             locker,
		reservationTimeout: reservationTimeout,
		metrics:            metrics,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// SlotResourceID возвращает идентификатор ресурса блокировки для слота
// Гранулярность эксклюзивности - (услуга, дата заезда): две резервации
// одной услуги с одинаковой датой заезда конкурируют за один ключ
func SlotResourceID(serviceID int64, startDate time.Time) string {
	return fmt.Sprintf("booking:%d:%s", serviceID, startDate.Format(domain.DateFormat))
}

// Execute выполняет резервацию бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: user=%d, service=%d, range=%s..%s",
		req.UserID, req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Захватываем блокировку слота
	// При занятой блокировке отказываем сразу, без retry/backoff:
	// повтор - ответственность вызывающей стороны
	resourceID := SlotResourceID(req.ServiceID, req.StartDate)
	lockKey, lockToken, err := uc.locker.AcquireLock(ctx, resourceID, uc.reservationTimeout)
	if err != nil {
		if errors.Is(err, cache.ErrLockNotAcquired) {
			uc.logger.Warn("ReserveBooking: slot %s is locked by another reservation", resourceID)
			if uc.metrics != nil {
				uc.metrics.IncLockContention()
			}
			return nil, ErrSlotLocked
		}
		uc.logger.Error("ReserveBooking: failed to acquire lock for %s: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}

	// 3. Получаем услугу и проверяем окно доступности
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		uc.releaseLock(ctx, lockKey, lockToken)
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("ReserveBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ReserveBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.IsArchived || !service.ContainsRange(req.StartDate, req.EndDate) {
		uc.releaseLock(ctx, lockKey, lockToken)
		uc.logger.Warn("ReserveBooking: service id=%d unavailable for range %s..%s (archived=%t)",
			req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), service.IsArchived)
		return nil, ErrServiceUnavailable
	}

	// 4. Повторная проверка конфликтов под блокировкой
	// Обязательна даже с захваченной блокировкой: ключ построен только по дате
	// заезда, и пересекающийся диапазон с другой датой заезда мог быть создан
	// под другим ключом
	conflicting, err := uc.bookingRepo.FindOverlapping(ctx, req.ServiceID, req.StartDate, req.EndDate, domain.ActiveStatuses)
	if err != nil {
		uc.releaseLock(ctx, lockKey, lockToken)
		uc.logger.Error("ReserveBooking: failed to check conflicts for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
	}

	if len(conflicting) > 0 {
		uc.releaseLock(ctx, lockKey, lockToken)
		uc.logger.Warn("ReserveBooking: %d conflicting bookings for service id=%d, range %s..%s",
			len(conflicting), req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
		return nil, ErrSlotAlreadyBooked
	}

	// 5. Фиксируем стоимость на момент резервации
	totalPrice := domain.TotalPrice(req.StartDate, req.EndDate, service.PricePerDay)

	// 6. Создаем PENDING бронирование с идентификацией блокировки
	booking := &domain.Booking{
		UserID:     req.UserID,
		ServiceID:  req.ServiceID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalPrice: totalPrice,
		Status:     domain.StatusPending,
		LockKey:    ptr.Ptr(lockKey),
		LockToken:  ptr.Ptr(lockToken),
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.releaseLock(ctx, lockKey, lockToken)
		uc.logger.Error("ReserveBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// Блокировка намеренно НЕ освобождается: она удерживает слот, пока клиент
	// завершает внешнее действие (оплату) перед подтверждением. Освобождение
	// произойдет в confirm либо в sweeper по таймауту
	uc.logger.Info("ReserveBooking: created pending booking id=%d, price=%.2f", created.ID, created.TotalPrice)

	return &Response{
		ID:         created.ID,
		UserID:     created.UserID,
		ServiceID:  created.ServiceID,
		StartDate:  created.StartDate,
		EndDate:    created.EndDate,
		TotalPrice: created.TotalPrice,
		Status:     string(created.Status),
		CreatedAt:  created.CreatedAt,
		UpdatedAt:  created.UpdatedAt,
	}, nil
}

// releaseLock освобождает блокировку на ветках отказа
// Ошибка освобождения логируется и не пробрасывается: запись в lock store
// самоустранится по TTL
func (uc *UseCase) releaseLock(ctx context.Context, lockKey, token string) {
	released, err := uc.locker.ReleaseLock(ctx, lockKey, token)
	if err != nil {
		uc.logger.Error("ReserveBooking: failed to release lock %s: %v", lockKey, err)
		return
	}
	if !released {
		uc.logger.Warn("ReserveBooking: lock %s was not released (expired or re-acquired)", lockKey)
	}
}
