package confirm_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrSessionExpired возвращается, когда бронирование отсутствует или
	// уже покинуло статус pending. Повторное подтверждение - тоже ошибка:
	// блокировка слота была освобождена первым подтверждением
	ErrSessionExpired = errors.New("confirm_booking: reservation session expired or not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("confirm_booking: internal error")
)
