package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error

	calls          int
	lastStatuses   []domain.BookingStatus
	lastRangeStart time.Time
	lastRangeEnd   time.Time
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, serviceID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	f.calls++
	f.lastStatuses = statuses
	f.lastRangeStart = start
	f.lastRangeEnd = end
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func availableService(t *testing.T) *catalogservice.Service {
	t.Helper()
	return &catalogservice.Service{
		ID:            10,
		Name:          "Kayak",
		PricePerDay:   50.0,
		AvailableFrom: mustDate(t, "2024-01-01"),
		AvailableTo:   mustDate(t, "2025-12-31"),
	}
}

func TestCheck_FreeRange(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	err := uc.Check(context.Background(), 10, mustDate(t, "2025-10-01"), mustDate(t, "2025-10-04"))
	require.NoError(t, err)

	// Конфликты ищутся среди pending и confirmed
	assert.Equal(t, domain.ActiveStatuses, repo.lastStatuses)
}

func TestCheck_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}, nopLogger{})

	err := uc.Check(context.Background(), 10, mustDate(t, "2025-10-01"), mustDate(t, "2025-10-04"))
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCheck_OutsideAvailabilityWindow(t *testing.T) {
	// Диапазон вне окна недоступен даже без единого конфликта,
	// до ledger проверка не доходит
	service := availableService(t)
	service.AvailableTo = mustDate(t, "2025-09-30")

	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, &fakeCatalogClient{service: service}, nopLogger{})

	err := uc.Check(context.Background(), 10, mustDate(t, "2025-10-01"), mustDate(t, "2025-10-04"))
	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Zero(t, repo.calls)
}

func TestCheck_ConflictingBooking(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:        7,
				ServiceID: 10,
				StartDate: mustDate(t, "2025-10-03"),
				EndDate:   mustDate(t, "2025-10-06"),
				Status:    domain.StatusPending,
			},
		},
	}

	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	err := uc.Check(context.Background(), 10, mustDate(t, "2025-10-01"), mustDate(t, "2025-10-04"))
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestCheck_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	err := uc.Check(context.Background(), 10, mustDate(t, "2025-10-04"), mustDate(t, "2025-10-01"))
	require.ErrorIs(t, err, ErrInvalidInput)

	err = uc.Check(context.Background(), 0, mustDate(t, "2025-10-01"), mustDate(t, "2025-10-04"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthly_EmptyMonth(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	calendar, err := uc.Monthly(context.Background(), 10, time.February, 2024)
	require.NoError(t, err)

	// Високосный февраль: 29 дней, все свободны
	require.Len(t, calendar, 29)
	for day, busy := range calendar {
		assert.Falsef(t, busy, "day %s must be free", day)
	}

	// Занятость считается только по confirmed
	assert.Equal(t, []domain.BookingStatus{domain.StatusConfirmed}, repo.lastStatuses)
}

func TestMonthly_BookingClampedToMonth(t *testing.T) {
	// Бронирование 27.02-02.03 помечает только дни внутри февраля
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:        7,
				ServiceID: 10,
				StartDate: mustDate(t, "2024-02-27"),
				EndDate:   mustDate(t, "2024-03-02"),
				Status:    domain.StatusConfirmed,
			},
		},
	}

	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	calendar, err := uc.Monthly(context.Background(), 10, time.February, 2024)
	require.NoError(t, err)
	require.Len(t, calendar, 29)

	assert.True(t, calendar["2024-02-27"])
	assert.True(t, calendar["2024-02-28"])
	assert.True(t, calendar["2024-02-29"])

	busyDays := 0
	for _, busy := range calendar {
		if busy {
			busyDays++
		}
	}
	assert.Equal(t, 3, busyDays)
}

func TestMonthly_MidMonthBooking(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:        8,
				ServiceID: 10,
				StartDate: mustDate(t, "2025-10-10"),
				EndDate:   mustDate(t, "2025-10-12"),
				Status:    domain.StatusConfirmed,
			},
		},
	}

	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	calendar, err := uc.Monthly(context.Background(), 10, time.October, 2025)
	require.NoError(t, err)
	require.Len(t, calendar, 31)

	assert.True(t, calendar["2025-10-10"])
	assert.True(t, calendar["2025-10-11"])
	assert.True(t, calendar["2025-10-12"])
	assert.False(t, calendar["2025-10-09"])
	assert.False(t, calendar["2025-10-13"])
}

func TestMonthly_InvalidMonth(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: availableService(t)}, nopLogger{})

	_, err := uc.Monthly(context.Background(), 10, time.Month(13), 2025)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Monthly(context.Background(), 10, time.Month(0), 2025)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthly_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}, nopLogger{})

	_, err := uc.Monthly(context.Background(), 10, time.February, 2024)
	require.ErrorIs(t, err, ErrServiceNotFound)
}
