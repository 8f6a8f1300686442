// internal/service/shift.go
package service

import (
	"log"
	"strings"
	"time"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

// ShiftManager ведет жизненный цикл смены: открытие, добавление заказов,
// закрытие с расчетом бензина и прибыли. Одновременно открыта не более
// одной смены; закрытая смена заново не открывается.
type ShiftManager struct {
	store ShiftStore
	rates settlement.Rates

	defaultConsumption float64 // л на 100 км, когда истории еще нет
	defaultFuelPrice   float64

	now func() time.Time
}

// NewShiftManager собирает менеджер смен.
func NewShiftManager(store ShiftStore, rates settlement.Rates, defaultConsumption, defaultFuelPrice float64) *ShiftManager {
	return &ShiftManager{
		store:              store,
		rates:              rates,
		defaultConsumption: defaultConsumption,
		defaultFuelPrice:   defaultFuelPrice,
		now:                time.Now,
	}
}

// Current возвращает открытую смену или nil.
func (m *ShiftManager) Current() (*models.Shift, error) {
	return m.store.GetOpenShift()
}

// Open открывает новую смену на указанную дату. Дата нормализуется к
// YYYY-MM-DD; при уже открытой смене возвращается ConflictError.
func (m *ShiftManager) Open(date string) (int64, error) {
	normalized, err := NormalizeDate(date)
	if err != nil {
		return 0, err
	}

	open, err := m.store.GetOpenShift()
	if err != nil {
		return 0, err
	}
	if open != nil {
		return 0, apperrors.NewConflict("смена на %s уже открыта, сначала закройте ее", open.Date)
	}

	return m.store.CreateOpenShift(normalized, m.now())
}

// AddOrder рассчитывает заказ и записывает его в открытую смену; запись
// заказа и изменение накопленного безнала выполняются хранилищем в одной
// транзакции. Время заказа — свободный текст; пустое заполняется текущим
// временем в формате HH:MM.
func (m *ShiftManager) AddOrder(shiftID int64, amount, tips float64, paymentType, orderTime string) (models.Order, error) {
	shift, err := m.store.GetShiftByID(shiftID)
	if err != nil {
		return models.Order{}, err
	}
	if shift == nil {
		return models.Order{}, apperrors.NewInvalidState("смена #%d не найдена", shiftID)
	}
	if !shift.IsOpen {
		return models.Order{}, apperrors.NewInvalidState("смена #%d уже закрыта, заказ добавить нельзя", shiftID)
	}

	res, err := m.rates.Settle(amount, tips, paymentType)
	if err != nil {
		return models.Order{}, err
	}

	if orderTime == "" {
		orderTime = m.now().Format("15:04")
	}

	order := models.Order{
		ShiftID:     shiftID,
		Type:        paymentType,
		Amount:      amount,
		Tips:        tips,
		Commission:  res.Commission,
		Total:       res.Total,
		BeznalAdded: res.BeznalAdded,
		OrderTime:   orderTime,
	}
	orderID, err := m.store.AppendOrderWithBalance(order)
	if err != nil {
		return models.Order{}, err
	}
	order.ID = orderID
	log.Printf("Заказ #%d записан в смену #%d: %s, сумма %.2f, чаевые %.2f, водителю %.2f.",
		orderID, shiftID, paymentType, amount, tips, order.Total)
	return order, nil
}

// Orders возвращает заказы смены в порядке добавления.
func (m *ShiftManager) Orders(shiftID int64) ([]models.Order, error) {
	return m.store.GetShiftOrders(shiftID)
}

// Totals возвращает агрегаты по заказам смены.
func (m *ShiftManager) Totals(shiftID int64) (models.ShiftTotals, error) {
	return m.store.GetShiftTotals(shiftID)
}

// Close закрывает смену: сохраняет километраж и топливо, считает бензин и
// чистую прибыль по уже записанным заказам. Смену можно закрыть и с
// нулевыми топливными полями — бензин тогда 0.
func (m *ShiftManager) Close(shiftID int64, km, fuelLiters, fuelPrice float64) (models.ClosedShiftSummary, error) {
	if km < 0 || fuelLiters < 0 || fuelPrice < 0 {
		return models.ClosedShiftSummary{}, apperrors.NewValidation("километраж, литры и цена бензина не могут быть отрицательными")
	}

	shift, err := m.store.GetShiftByID(shiftID)
	if err != nil {
		return models.ClosedShiftSummary{}, err
	}
	if shift == nil {
		return models.ClosedShiftSummary{}, apperrors.NewInvalidState("смена #%d не найдена", shiftID)
	}
	if !shift.IsOpen {
		return models.ClosedShiftSummary{}, apperrors.NewInvalidState("смена #%d уже закрыта", shiftID)
	}

	totals, err := m.store.GetShiftTotals(shiftID)
	if err != nil {
		return models.ClosedShiftSummary{}, err
	}

	closedAt := m.now()
	if err := m.store.CloseShift(shiftID, km, fuelLiters, fuelPrice, closedAt); err != nil {
		return models.ClosedShiftSummary{}, err
	}

	fuelCost := fuelLiters * fuelPrice
	income := totals.Income()
	summary := models.ClosedShiftSummary{
		ShiftID:  shiftID,
		Date:     shift.Date,
		Income:   income,
		FuelCost: fuelCost,
		Profit:   income - fuelCost,
		Totals:   totals,
		ClosedAt: closedAt,
	}
	log.Printf("Смена #%d закрыта: доход %.2f, бензин %.2f, прибыль %.2f.",
		shiftID, summary.Income, summary.FuelCost, summary.Profit)
	return summary, nil
}

// SuggestFuelParams возвращает расход (л/100км) и цену бензина из последней
// закрытой смены с ненулевыми топливными данными, либо значения по
// умолчанию, если такой смены нет.
func (m *ShiftManager) SuggestFuelParams() (models.FuelSuggestion, error) {
	fallback := models.FuelSuggestion{
		ConsumptionPer100: m.defaultConsumption,
		FuelPrice:         m.defaultFuelPrice,
	}

	shift, err := m.store.GetLastFuelShift()
	if err != nil {
		return models.FuelSuggestion{}, err
	}
	if shift == nil {
		return fallback, nil
	}

	consumption := m.defaultConsumption
	if shift.Km > 0 {
		consumption = shift.FuelLiters / shift.Km * 100
	}
	price := shift.FuelPrice
	if price <= 0 {
		price = m.defaultFuelPrice
	}
	return models.FuelSuggestion{ConsumptionPer100: consumption, FuelPrice: price}, nil
}

// AccumulatedBeznal возвращает текущий накопленный безнал.
func (m *ShiftManager) AccumulatedBeznal() (float64, error) {
	return m.store.GetAccumulatedBeznal()
}

// NormalizeDate приводит дату к каноническому виду YYYY-MM-DD. Форматы —
// те, что реально встречаются в выгрузках и формах; всё остальное — ошибка
// валидации, локальные строки в базу не попадают.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.NewValidation("строка даты пуста")
	}

	formats := []string{
		constants.DateOnlyFormat,  // YYYY-MM-DD (основной формат)
		"02.01.2006",              // ДД.ММ.ГГГГ
		"02/01/2006",              // ДД/ММ/ГГГГ
		"2006-01-02 15:04:05",     // timestamp без таймзоны (выгрузки)
		time.RFC3339,              // полный timestamp
	}
	for _, format := range formats {
		if parsed, err := time.Parse(format, raw); err == nil {
			return parsed.Format(constants.DateOnlyFormat), nil
		}
	}
	return "", apperrors.NewValidation("некорректный формат даты: '%s'", raw)
}
