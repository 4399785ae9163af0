package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение истории бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64
	Page   uint64 // Номер страницы, начиная с 1
	Limit  uint64 // Размер страницы
}

// Response модели

// BookingResponse ответ с данными бронирования
// Кэшируется целиком, поэтому сериализация должна быть стабильной
type BookingResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	ServiceID  int64     `json:"serviceId"`
	StartDate  string    `json:"startDate"` // "2025-10-15"
	EndDate    string    `json:"endDate"`   // "2025-10-18"
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BookingListResponse страница бронирований пользователя
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     uint64            `json:"page"`
	Limit    uint64            `json:"limit"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		ServiceID:  b.ServiceID,
		StartDate:  b.StartDate.Format(domain.DateFormat),
		EndDate:    b.EndDate.Format(domain.DateFormat),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует слайс domain моделей в DTO списка
func FromDomainBookingList(bookings []*domain.Booking, total int64, page, limit uint64) *BookingListResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, *FromDomainBooking(b))
	}

	return &BookingListResponse{
		Bookings: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
}
