package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/usecase/availability"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDates     = "некорректный формат дат, ожидается YYYY-MM-DD"
	msgNotFound         = "услуга не найдена"
	msgUnavailable      = "услуга недоступна для выбранного диапазона дат"

	reasonSlotBooked = "slot_already_booked"
)

type Handler struct {
	usecase AvailabilityUseCase
	logger  Logger
}

func NewHandler(usecase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}
	end, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	resp := AvailabilityResponse{
		ServiceID: serviceID,
		StartDate: start.Format(domain.DateFormat),
		EndDate:   end.Format(domain.DateFormat),
	}

	if err := h.usecase.Check(r.Context(), serviceID, start, end); err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDates)

		case errors.Is(err, availability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrServiceUnavailable):
			h.logger.Warn("GET /services/{id}/availability - Service unavailable: service_id=%d", serviceID)
			handlers.RespondUnprocessableEntity(w, msgUnavailable)

		case errors.Is(err, availability.ErrSlotAlreadyBooked):
			// Занятый слот - это ответ, а не ошибка
			resp.Available = false
			resp.Reason = reasonSlotBooked
			handlers.RespondJSON(w, http.StatusOK, resp)

		default:
			h.logger.Error("GET /services/{id}/availability - Failed to check availability: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp.Available = true
	handlers.RespondJSON(w, http.StatusOK, resp)
}
