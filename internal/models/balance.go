package models

import "time"

// AccumulatedBalance — накопленный безнал, единственная строка на водителя.
// Инвариант: равен сумме beznal_added по всем заказам с момента последнего
// полного сброса, пока его не перезаписали ручной корректировкой.
type AccumulatedBalance struct {
	DriverID    int       `json:"driver_id"`
	TotalAmount float64   `json:"total_amount"`
	LastUpdated time.Time `json:"last_updated"`
}
