package reserve_booking

import "time"

// Request модель запроса на резервацию бронирования
type Request struct {
	UserID    int64     // ID пользователя
	ServiceID int64     // ID услуги
	StartDate time.Time // Первый день аренды (включительно)
	EndDate   time.Time // Последний день аренды (включительно)
}

// Response модель ответа с созданной резервацией
// Блокировка слота остается захваченной: она будет освобождена
// подтверждением бронирования либо фоновой очисткой по таймауту
type Response struct {
	ID         int64     // ID созданного бронирования
	UserID     int64     // ID пользователя
	ServiceID  int64     // ID услуги
	StartDate  time.Time // Первый день аренды
	EndDate    time.Time // Последний день аренды
	TotalPrice float64   // Зафиксированная стоимость
	Status     string    // Статус бронирования (pending)
	CreatedAt  time.Time // Время создания
	UpdatedAt  time.Time // Время обновления
}
