package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// Booking represents a date-range reservation of a rental service
type Booking struct {
	ID        int64
	UserID    int64
	ServiceID int64

	// Inclusive calendar days, EndDate >= StartDate
	StartDate time.Time
	EndDate   time.Time

	// Frozen at reservation time, never recomputed
	TotalPrice float64

	Status BookingStatus

	// Идентификация блокировки слота в lock store
	// Заполнены тогда и только тогда, когда Status = pending;
	// обнуляются при любом переходе из pending
	LockKey   *string
	LockToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its date range
// (pending reservations hold the slot until confirmed or reclaimed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled by the user
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transition is possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCancelled || b.Status == StatusExpired
}

// Overlaps reports whether the booking's date range intersects [start, end]
// Ranges are inclusive, so touching boundaries do overlap
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}
