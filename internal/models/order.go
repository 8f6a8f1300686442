package models

// Order — один рассчитанный заказ (поездка) внутри смены. Запись создается
// один раз при расчете и дальше не меняется; исключение — массовый
// пересчет, который заново выводит commission/total/beznal_added из
// amount/tips/type.
type Order struct {
	ID          int64   `json:"id"`
	ShiftID     int64   `json:"shift_id"`
	Type        string  `json:"type"` // constants.PAYMENT_CASH | constants.PAYMENT_CARD
	Amount      float64 `json:"amount"`
	Tips        float64 `json:"tips"`
	Commission  float64 `json:"commission"`
	Total       float64 `json:"total"`
	BeznalAdded float64 `json:"beznal_added"` // дельта накопленного безнала, выводится расчетом
	OrderTime   string  `json:"order_time"`   // свободный текст, обычно HH:MM
}
