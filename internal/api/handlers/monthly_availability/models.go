package monthly_availability

// MonthlyAvailabilityResponse карта занятости услуги по дням месяца
// Ключ - дата в формате YYYY-MM-DD, значение true означает занятый день
type MonthlyAvailabilityResponse struct {
	ServiceID int64           `json:"serviceId"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Days      map[string]bool `json:"days"`
}
