package reserve_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	"github.com/m04kA/SMC-RentalService/internal/integrations/catalogservice"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	createFunc          func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	findOverlappingFunc func(ctx context.Context, serviceID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)

	createdBooking *domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.createdBooking = booking
	if f.createFunc != nil {
		return f.createFunc(ctx, booking)
	}
	created := *booking
	created.ID = 42
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, serviceID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	if f.findOverlappingFunc != nil {
		return f.findOverlappingFunc(ctx, serviceID, start, end, statuses)
	}
	return nil, nil
}

type fakeLocker struct {
	acquireErr   error
	acquiredKeys []string
	releasedKeys []string
}

func (f *fakeLocker) AcquireLock(ctx context.Context, resourceID string, ttl time.Duration) (string, string, error) {
	if f.acquireErr != nil {
		return "", "", f.acquireErr
	}
	key := "lock:" + resourceID
	f.acquiredKeys = append(f.acquiredKeys, key)
	return key, "token-1", nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, lockKey, token string) (bool, error) {
	f.releasedKeys = append(f.releasedKeys, lockKey)
	return true, nil
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

type fakeMetrics struct {
	lockContention int
}

func (f *fakeMetrics) IncLockContention() {
	f.lockContention++
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
		Name:          "Mountain bike",
		PricePerDay:   100.0,
		AvailableFrom: mustDate(t, "2025-01-01"),
		AvailableTo:   mustDate(t, "2025-12-31"),
	}
}

func validRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		UserID:    1,
		ServiceID: 10,
		StartDate: mustDate(t, "2025-10-01"),
		EndDate:   mustDate(t, "2025-10-04"),
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	locker := &fakeLocker{}
	catalog := &fakeCatalogClient{service: availableService(t)}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, catalog, locker, 5*time.Minute, metrics, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// 3 оплачиваемых дня по 100
	assert.Equal(t, 300.0, resp.TotalPrice)

	// Идентификация блокировки сохранена в бронировании
	require.NotNil(t, repo.createdBooking.LockKey)
	require.NotNil(t, repo.createdBooking.LockToken)
	assert.Equal(t, "lock:booking:10:2025-10-01", *repo.createdBooking.LockKey)
	assert.Equal(t, "token-1", *repo.createdBooking.LockToken)

	// Блокировка удерживается до confirm или sweeper
	assert.Len(t, locker.acquiredKeys, 1)
	assert.Empty(t, locker.releasedKeys)
	assert.Zero(t, metrics.lockContention)
}

func TestExecute_SlotLocked(t *testing.T) {
	repo := &fakeBookingRepo{}
	locker := &fakeLocker{acquireErr: cache.ErrLockNotAcquired}
	catalog := &fakeCatalogClient{service: availableService(t)}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, catalog, locker, 5*time.Minute, metrics, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrSlotLocked)

	// Отказ без retry, но с учётом contention в метриках
	assert.Equal(t, 1, metrics.lockContention)
	assert.Nil(t, repo.createdBooking)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	repo := &fakeBookingRepo{}
	locker := &fakeLocker{}
	catalog := &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}

	uc := NewUseCase(repo, catalog, locker, 5*time.Minute, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrServiceNotFound)

	// Блокировка освобождена на ветке отказа
	assert.Len(t, locker.releasedKeys, 1)
}

func TestExecute_ServiceUnavailableForRange(t *testing.T) {
	service := availableService(t)
	service.AvailableTo = mustDate(t, "2025-09-30")

	repo := &fakeBookingRepo{}
	locker := &fakeLocker{}
	catalog := &fakeCatalogClient{service: service}

	uc := NewUseCase(repo, catalog, locker, 5*time.Minute, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Len(t, locker.releasedKeys, 1)
}

func TestExecute_ArchivedService(t *testing.T) {
	service := availableService(t)
	service.IsArchived = true

	locker := &fakeLocker{}
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: service}, locker,
		5*time.Minute, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Len(t, locker.releasedKeys, 1)
}

func TestExecute_ConflictDetectedUnderLock(t *testing.T) {
	// Пересекающийся диапазон с другой датой заезда держит другой ключ
	// блокировки, поэтому ловится только повторной проверкой по ledger
	existing := &domain.Booking{
		ID:        7,
		ServiceID: 10,
		StartDate: mustDate(t, "2025-09-29"),
		EndDate:   mustDate(t, "2025-10-02"),
		Status:    domain.StatusConfirmed,
	}

	repo := &fakeBookingRepo{
		findOverlappingFunc: func(ctx context.Context, serviceID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
			return []*domain.Booking{existing}, nil
		},
	}
	locker := &fakeLocker{}

	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, locker,
		5*time.Minute, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)

	assert.Len(t, locker.releasedKeys, 1)
	assert.Nil(t, repo.createdBooking)
}

func TestExecute_CreateFailureReleasesLock(t *testing.T) {
	repo := &fakeBookingRepo{
		createFunc: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			return nil, errors.New("connection refused")
		},
	}
	locker := &fakeLocker{}

	uc := NewUseCase(repo, &fakeCatalogClient{service: availableService(t)}, locker,
		5*time.Minute, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.ErrorIs(t, err, ErrInternal)
	assert.Len(t, locker.releasedKeys, 1)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: availableService(t)},
		&fakeLocker{}, 5*time.Minute, nil, nopLogger{})

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "missing user", mutate: func(req *Request) { req.UserID = 0 }},
		{name: "missing service", mutate: func(req *Request) { req.ServiceID = 0 }},
		{name: "zero dates", mutate: func(req *Request) { req.StartDate = time.Time{} }},
		{name: "end before start", mutate: func(req *Request) {
			req.EndDate = req.StartDate.AddDate(0, 0, -1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSlotResourceID(t *testing.T) {
	got := SlotResourceID(10, mustDate(t, "2025-10-01"))
	assert.Equal(t, "booking:10:2025-10-01", got)
}
