package reserve_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_booking: invalid input data")

	// ErrSlotLocked возвращается, когда слот уже резервируется другим запросом
	// Ошибка временная: вызывающая сторона может повторить попытку
	ErrSlotLocked = errors.New("reserve_booking: slot is already being reserved")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("reserve_booking: service not found")

	// ErrServiceUnavailable возвращается, когда диапазон дат выходит за окно
	// доступности услуги или услуга архивирована
	ErrServiceUnavailable = errors.New("reserve_booking: service unavailable for requested range")

	// ErrSlotAlreadyBooked возвращается, когда диапазон пересекается с
	// существующим активным бронированием
	ErrSlotAlreadyBooked = errors.New("reserve_booking: dates conflict with existing booking")

	// ErrInternal возвращается при внутренних ошибках координатора
	ErrInternal = errors.New("reserve_booking: internal error")
)
