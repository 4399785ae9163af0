package domain

import (
	"math"
	"time"
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих диапазон дат
// Используются при проверке конфликтов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCancelled,
	StatusExpired,
}

// PriceDays возвращает количество оплачиваемых дней диапазона [start, end]
// Считается как end - start в днях с округлением вверх:
// заезд 1-го, выезд 4-го = 3 оплачиваемых дня
func PriceDays(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days < 1 {
		// Однодневное бронирование (start == end) оплачивается как один день
		days = 1
	}
	return int(days)
}

// TotalPrice возвращает стоимость бронирования диапазона по цене за день
func TotalPrice(start, end time.Time, pricePerDay float64) float64 {
	return float64(PriceDays(start, end)) * pricePerDay
}

// TruncateToDay обнуляет время, оставляя только дату
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
