package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("availability: service not found")

	// ErrServiceUnavailable возвращается, когда диапазон выходит за окно
	// доступности услуги или услуга архивирована
	ErrServiceUnavailable = errors.New("availability: service unavailable for requested range")

	// ErrSlotAlreadyBooked возвращается, когда диапазон пересекается с
	// существующим активным бронированием
	ErrSlotAlreadyBooked = errors.New("availability: dates conflict with existing booking")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("availability: internal error")
)
