package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	catalogClient "github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
)

// UseCase калькулятор доступности
//
// Проверки только читают ledger, без блокировок: результат пригоден для
// предварительных проверок в UI, но не авторитетен - гонку окончательно
// разрешает только резервация
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр калькулятора доступности
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Check проверяет, можно ли забронировать услугу на диапазон [start, end]
// Возвращает nil, если диапазон свободен, иначе типизированную ошибку
func (uc *UseCase) Check(ctx context.Context, serviceID int64, start, end time.Time) error {
	uc.logger.Info("CheckAvailability: service=%d, range=%s..%s",
		serviceID, start.Format(domain.DateFormat), end.Format(domain.DateFormat))

	if serviceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	service, err := uc.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", serviceID)
			return ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Проверка окна выполняется до обращения к ledger: диапазон вне окна
	// недоступен, даже если конфликтующих бронирований нет
	if service.IsArchived || !service.ContainsRange(start, end) {
		uc.logger.Warn("CheckAvailability: service id=%d unavailable for range (archived=%t)",
			serviceID, service.IsArchived)
		return ErrServiceUnavailable
	}

	conflicting, err := uc.bookingRepo.FindOverlapping(ctx, serviceID, start, end, domain.ActiveStatuses)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to check conflicts for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
	}

	if len(conflicting) > 0 {
		uc.logger.Info("CheckAvailability: service id=%d has %d conflicting bookings", serviceID, len(conflicting))
		return ErrSlotAlreadyBooked
	}

	return nil
}

// Monthly строит карту занятости услуги по дням месяца
// Занятость считается только по CONFIRMED бронированиям; месяц без
// бронирований возвращает полную карту со значениями false
func (uc *UseCase) Monthly(ctx context.Context, serviceID int64, month time.Month, year int) (map[string]bool, error) {
	uc.logger.Info("MonthlyAvailability: service=%d, month=%d, year=%d", serviceID, month, year)

	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be in range 1-12", ErrInvalidInput)
	}
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	if _, err := uc.catalogClient.GetService(ctx, serviceID); err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("MonthlyAvailability: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("MonthlyAvailability: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	monthStart, monthEnd := monthBounds(year, month)

	confirmed, err := uc.bookingRepo.FindOverlapping(ctx, serviceID, monthStart, monthEnd,
		[]domain.BookingStatus{domain.StatusConfirmed})
	if err != nil {
		uc.logger.Error("MonthlyAvailability: failed to get bookings for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return buildMonthCalendar(year, month, confirmed), nil
}
