package monthly_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/usecase/availability"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidMonth     = "некорректные параметры month/year"
	msgNotFound         = "услуга не найдена"
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

// Handle GET /api/v1/services/{serviceId}/availability/monthly?month=2&year=2024
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/monthly - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/monthly - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/monthly - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	days, err := h.usecase.Monthly(r.Context(), serviceID, time.Month(month), year)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/availability/monthly - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonth)

		case errors.Is(err, availability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability/monthly - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /services/{id}/availability/monthly - Failed to build calendar: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, MonthlyAvailabilityResponse{
		ServiceID: serviceID,
		Month:     month,
		Year:      year,
		Days:      days,
	})
}
