package availability

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// normalizeDay приводит момент времени к UTC-полуночи его календарного дня
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthBounds возвращает первый и последний календарный день месяца
func monthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// buildMonthCalendar строит карту занятости по дням месяца
// Каждый календарный день месяца присутствует в карте; день помечается
// занятым, если попадает в пересечение диапазона бронирования и месяца.
// Бронирование, выходящее за границу месяца, помечает только дни внутри месяца
func buildMonthCalendar(year int, month time.Month, bookings []*domain.Booking) map[string]bool {
	monthStart, monthEnd := monthBounds(year, month)

	calendar := make(map[string]bool)
	for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
		calendar[day.Format(domain.DateFormat)] = false
	}

	for _, booking := range bookings {
		// Приводим границы к UTC-полуночи, чтобы ключи дней совпадали
		// независимо от того, в какой зоне хранилище вернуло даты
		from := normalizeDay(booking.StartDate)
		if from.Before(monthStart) {
			from = monthStart
		}
		to := normalizeDay(booking.EndDate)
		if to.After(monthEnd) {
			to = monthEnd
		}

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			calendar[day.Format(domain.DateFormat)] = true
		}
	}

	return calendar
}
