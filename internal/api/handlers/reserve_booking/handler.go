package reserve_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	reserveBooking "github.com/m04kA/SMC-RentalService/internal/usecase/reserve_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный диапазон дат"
	msgSlotLocked         = "слот уже резервируется, повторите попытку"
	msgSlotBooked         = "выбранные даты уже заняты"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceUnavailable = "услуга недоступна на выбранные даты"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req ReserveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, service_id=%d: %v",
				userID, req.ServiceID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, reserveBooking.ErrSlotLocked):
			h.logger.Warn("POST /bookings - Slot locked: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondConflict(w, msgSlotLocked)

		case errors.Is(err, reserveBooking.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /bookings - Dates already booked: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondConflict(w, msgSlotBooked)

		case errors.Is(err, reserveBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, reserveBooking.ErrServiceUnavailable):
			h.logger.Warn("POST /bookings - Service unavailable: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondUnprocessableEntity(w, msgServiceUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to reserve booking: user_id=%d, service_id=%d, error=%v",
				userID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking reserved: booking_id=%d, user_id=%d, service_id=%d",
		result.ID, userID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
