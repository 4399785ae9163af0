package catalogservice

import "time"

// Service модель услуги из каталога
type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
	// Окно доступности: бронировать можно только диапазоны,
	// целиком лежащие в [AvailableFrom, AvailableTo]
	AvailableFrom time.Time `json:"available_from"`
	AvailableTo   time.Time `json:"available_to"`
	IsArchived    bool      `json:"is_archived"`
}

// ContainsRange проверяет, что [start, end] целиком лежит в окне доступности
func (s *Service) ContainsRange(start, end time.Time) bool {
	return !start.Before(s.AvailableFrom) && !end.After(s.AvailableTo)
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
