package service

import (
	"time"

	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

// ShiftStore — операции хранилища, нужные менеджеру смен.
// Боевая реализация — *db.Store.
type ShiftStore interface {
	GetOpenShift() (*models.Shift, error)
	GetShiftByID(shiftID int64) (*models.Shift, error)
	CreateOpenShift(date string, openedAt time.Time) (int64, error)
	CloseShift(shiftID int64, km, fuelLiters, fuelPrice float64, closedAt time.Time) error
	AppendOrderWithBalance(order models.Order) (int64, error)
	GetShiftOrders(shiftID int64) ([]models.Order, error)
	GetShiftTotals(shiftID int64) (models.ShiftTotals, error)
	GetLastFuelShift() (*models.Shift, error)
	GetAccumulatedBeznal() (float64, error)
}

// ImportStore — операции хранилища для пакетного импорта.
type ImportStore interface {
	GetShiftIDByDate(date string) (int64, bool, error)
	CreateClosedShift(date string, ts time.Time) (int64, error)
	AppendOrderWithBalance(order models.Order) (int64, error)
	GetAccumulatedBeznal() (float64, error)
}

// ReportStore — выборки для отчетов по месяцам и дням.
type ReportStore interface {
	GetAvailableMonths() ([]string, error)
	GetMonthTotals(yearMonth string) (models.MonthTotals, error)
	GetMonthShiftRows(yearMonth string) ([]models.ShiftReportRow, error)
	GetClosedShiftIDByDate(date string) (int64, bool, error)
	GetShiftOrders(shiftID int64) ([]models.Order, error)
	GetShiftTotals(shiftID int64) (models.ShiftTotals, error)
	GetOrderTimesForDate(date string) ([]string, error)
}

// AdminStore — административные операции над всей базой.
type AdminStore interface {
	GetAllOrders() ([]models.Order, error)
	GetAccumulatedBeznal() (float64, error)
	SetAccumulatedBeznal(value float64) error
	RebuildAccumulatedBeznal() (float64, error)
	RecalculateAllOrders(rates settlement.Rates) error
	Reset() error
}
