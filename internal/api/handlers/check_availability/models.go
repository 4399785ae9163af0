package check_availability

// AvailabilityResponse результат проверки доступности диапазона
type AvailabilityResponse struct {
	ServiceID int64  `json:"serviceId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
