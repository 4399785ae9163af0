package reserve_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	reserveBooking "github.com/m04kA/SMC-RentalService/internal/usecase/reserve_booking"
)

// ReserveBookingRequest HTTP request model
type ReserveBookingRequest struct {
	ServiceID int64  `json:"serviceId"`
	StartDate string `json:"startDate"` // "2025-10-15"
	EndDate   string `json:"endDate"`   // "2025-10-18"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	ServiceID  int64   `json:"serviceId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveBookingRequest) ToUseCaseRequest(userID int64) (*reserveBooking.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &reserveBooking.Request{
		UserID:    userID,
		ServiceID: r.ServiceID,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		UserID:     resp.UserID,
		ServiceID:  resp.ServiceID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		TotalPrice: resp.TotalPrice,
		Status:     resp.Status,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
