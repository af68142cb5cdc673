package booking

// CreateBookingRequest 咨询预约请求
type CreateBookingRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// SlotStatus 某日各时段是否可预约
type SlotStatus struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
