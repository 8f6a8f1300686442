package models

// MonthTotals — итоги за месяц по закрытым сменам, у которых есть хотя бы
// один заказ. Накопленный безнал — текущий, а не на конец месяца.
type MonthTotals struct {
	YearMonth          string  `json:"year_month"` // YYYY-MM
	Cash               float64 `json:"cash"`
	Card               float64 `json:"card"`
	Tips               float64 `json:"tips"`
	BeznalDelta        float64 `json:"beznal_delta"`
	Income             float64 `json:"income"`
	FuelCost           float64 `json:"fuel_cost"`
	Profit             float64 `json:"profit"`
	ShiftCount         int     `json:"shift_count"`
	AccumulatedBeznal  float64 `json:"accumulated_beznal"`
}

// ShiftReportRow — одна строка месячного отчета: закрытая смена с агрегатами
// заказов и топливными полями самой смены.
type ShiftReportRow struct {
	ShiftID     int64   `json:"shift_id"`
	Date        string  `json:"date"`
	Cash        float64 `json:"cash"`
	Card        float64 `json:"card"`
	Tips        float64 `json:"tips"`
	BeznalDelta float64 `json:"beznal_delta"`
	Km          float64 `json:"km"`
	FuelLiters  float64 `json:"fuel_liters"`
	FuelPrice   float64 `json:"fuel_price"`
	Total       float64 `json:"total"`
}

// HourBucket — количество заказов за один час суток.
type HourBucket struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// MonthOption — месяц для выбора в отчетах, с русским названием.
type MonthOption struct {
	YearMonth string `json:"year_month"` // YYYY-MM
	Label     string `json:"label"`     // например "2024-03 (март)"
}
