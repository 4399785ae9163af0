package confirm_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	confirmBooking "github.com/m04kA/SMC-RentalService/internal/usecase/confirm_booking"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeUseCase struct {
	err error

	lastBookingID int64
}

func (f *fakeUseCase) Execute(ctx context.Context, bookingID int64) error {
	f.lastBookingID = bookingID
	return f.err
}

func doRequest(t *testing.T, uc *fakeUseCase, bookingID string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/confirm", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+bookingID+"/confirm", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	uc := &fakeUseCase{}

	rec := doRequest(t, uc, "7")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.lastBookingID)
}

func TestHandle_SessionExpired(t *testing.T) {
	// Просроченная или уже закрытая резервация отвечает 410 Gone
	rec := doRequest(t, &fakeUseCase{err: confirmBooking.ErrSessionExpired}, "7")
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestHandle_InvalidID(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{err: confirmBooking.ErrInternal}, "7")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
