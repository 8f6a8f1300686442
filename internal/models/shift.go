package models

import (
	"database/sql"
	"time"
)

// Shift — одна рабочая смена. Одновременно открытой может быть не более
// одной смены; закрытая смена заново не открывается.
type Shift struct {
	ID         int64        `json:"id"`
	Date       string       `json:"date"` // YYYY-MM-DD
	Km         float64      `json:"km"`
	FuelLiters float64      `json:"fuel_liters"`
	FuelPrice  float64      `json:"fuel_price"`
	IsOpen     bool         `json:"is_open"`
	OpenedAt   sql.NullTime `json:"opened_at,omitempty"`
	ClosedAt   sql.NullTime `json:"closed_at,omitempty"`
}

// ShiftTotals — агрегаты по заказам одной смены.
type ShiftTotals struct {
	Cash        float64 `json:"cash"`         // SUM(total - tips) по нальным заказам
	Card        float64 `json:"card"`         // SUM(total - tips) по картовым заказам
	Tips        float64 `json:"tips"`         // SUM(tips)
	BeznalDelta float64 `json:"beznal_delta"` // SUM(beznal_added)
}

// Income — выручка смены до вычета бензина.
func (t ShiftTotals) Income() float64 {
	return t.Cash + t.Card + t.Tips
}

// ClosedShiftSummary — итог закрытия смены.
type ClosedShiftSummary struct {
	ShiftID  int64     `json:"shift_id"`
	Date     string    `json:"date"`
	Income   float64   `json:"income"`
	FuelCost float64   `json:"fuel_cost"`
	Profit   float64   `json:"profit"`
	Totals   ShiftTotals `json:"totals"`
	ClosedAt time.Time `json:"closed_at"`
}

// FuelSuggestion — подсказка топливных параметров для формы закрытия:
// расход из последней подходящей закрытой смены либо значения по умолчанию.
type FuelSuggestion struct {
	ConsumptionPer100 float64 `json:"consumption_per_100"`
	FuelPrice         float64 `json:"fuel_price"`
}
