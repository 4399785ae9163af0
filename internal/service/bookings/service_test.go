package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking      *domain.Booking
	getErr       error
	listResult   []*domain.Booking
	countResult  int64
	updateResult int64
	updateErr    error

	getCalls   int
	lastLimit  uint64
	lastOffset uint64
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, limit, offset uint64) ([]*domain.Booking, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.listResult, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	return f.countResult, nil
}

func (f *fakeBookingRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	return f.updateResult, nil
}

type fakeLocker struct {
	releasedKeys []string
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, lockKey, token string) (bool, error) {
	f.releasedKeys = append(f.releasedKeys, lockKey)
	return true, nil
}

type fakeCacheStore struct {
	cached *models.BookingResponse

	setKeys     []string
	deletedKeys []string
}

func (f *fakeCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	if f.cached == nil {
		return cache.ErrCacheMiss
	}
	*dest.(*models.BookingResponse) = *f.cached
	return nil
}

func (f *fakeCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.setKeys = append(f.setKeys, key)
	return nil
}

func (f *fakeCacheStore) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func testBooking(t *testing.T, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		ID:         7,
		UserID:     1,
		ServiceID:  10,
		StartDate:  mustDate(t, "2025-10-01"),
		EndDate:    mustDate(t, "2025-10-04"),
		TotalPrice: 300.0,
		Status:     status,
	}
	if status == domain.StatusPending {
		b.LockKey = ptr.Ptr("lock:booking:10:2025-10-01")
		b.LockToken = ptr.Ptr("token-1")
	}
	return b
}

func newService(repo *fakeBookingRepo, locker *fakeLocker, cacheStore *fakeCacheStore) *Service {
	return NewService(repo, locker, cacheStore, 10*time.Minute, nopLogger{})
}

func TestGetByID_CacheMiss(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusConfirmed)}
	cacheStore := &fakeCacheStore{}

	svc := newService(repo, &fakeLocker{}, cacheStore)

	resp, err := svc.GetByID(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2025-10-01", resp.StartDate)
	assert.Equal(t, "confirmed", resp.Status)

	// Промах наполняет кэш
	assert.Equal(t, []string{"booking:7"}, cacheStore.setKeys)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetByID_CacheHit(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusConfirmed)}
	cacheStore := &fakeCacheStore{
		cached: models.FromDomainBooking(testBooking(t, domain.StatusConfirmed)),
	}

	svc := newService(repo, &fakeLocker{}, cacheStore)

	resp, err := svc.GetByID(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	// Попадание в кэш не обращается к ledger
	assert.Zero(t, repo.getCalls)
}

func TestGetByID_AccessDeniedOnCacheHit(t *testing.T) {
	// Проверка владельца выполняется и на кэшированном значении
	cacheStore := &fakeCacheStore{
		cached: models.FromDomainBooking(testBooking(t, domain.StatusConfirmed)),
	}

	svc := newService(&fakeBookingRepo{}, &fakeLocker{}, cacheStore)

	_, err := svc.GetByID(context.Background(), 7, 999)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusConfirmed)}

	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	_, err := svc.GetByID(context.Background(), 7, 999)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}

	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	_, err := svc.GetByID(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings_Pagination(t *testing.T) {
	repo := &fakeBookingRepo{
		listResult:  []*domain.Booking{testBooking(t, domain.StatusConfirmed)},
		countResult: 45,
	}

	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 1,
		Page:   3,
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(10), repo.lastLimit)
	assert.Equal(t, uint64(20), repo.lastOffset)
	assert.Equal(t, int64(45), resp.Total)
	assert.Equal(t, uint64(3), resp.Page)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetUserBookings_Defaults(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, uint64(defaultPageLimit), repo.lastLimit)
	assert.Zero(t, repo.lastOffset)
	assert.Equal(t, uint64(1), resp.Page)
}

func TestGetUserBookings_LimitCapped(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 1,
		Limit:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(maxPageLimit), repo.lastLimit)
}

func TestGetUserBookings_InvalidUser(t *testing.T) {
	svc := newService(&fakeBookingRepo{}, &fakeLocker{}, &fakeCacheStore{})

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_PendingReleasesLock(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusPending), updateResult: 1}
	locker := &fakeLocker{}
	cacheStore := &fakeCacheStore{}

	svc := newService(repo, locker, cacheStore)

	err := svc.Cancel(context.Background(), 7, 1)
	require.NoError(t, err)

	// Отмена pending освобождает слот, не дожидаясь TTL
	assert.Equal(t, []string{"lock:booking:10:2025-10-01"}, locker.releasedKeys)
	assert.Equal(t, []string{"booking:7"}, cacheStore.deletedKeys)
}

func TestCancel_ConfirmedDoesNotTouchLock(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusConfirmed), updateResult: 1}
	locker := &fakeLocker{}

	svc := newService(repo, locker, &fakeCacheStore{})

	err := svc.Cancel(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Empty(t, locker.releasedKeys)
}

func TestCancel_TerminalStatus(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusExpired} {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(t, status)}
			svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

			err := svc.Cancel(context.Background(), 7, 1)
			require.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusPending)}
	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	err := svc.Cancel(context.Background(), 7, 999)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	err := svc.Cancel(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ConcurrentTransition(t *testing.T) {
	// Sweeper успел перевести pending в expired между чтением и переходом
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusPending), updateResult: 0}
	locker := &fakeLocker{}

	svc := newService(repo, locker, &fakeCacheStore{})

	err := svc.Cancel(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, locker.releasedKeys)
}

func TestCancel_RepositoryFailure(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t, domain.StatusPending), updateErr: errors.New("connection refused")}
	svc := newService(repo, &fakeLocker{}, &fakeCacheStore{})

	err := svc.Cancel(context.Background(), 7, 1)
	require.ErrorIs(t, err, ErrInternal)
}
