package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxiledger/internal/models"
)

// DayOrdersResponse - заказы дня с агрегатами по смене
type DayOrdersResponse struct {
	Orders []models.Order     `json:"orders"`
	Totals models.ShiftTotals `json:"totals"`
}

// GetMonths возвращает месяцы с данными, от новых к старым.
func (deps *ApiDependencies) GetMonths(w http.ResponseWriter, r *http.Request) {
	months, err := deps.Reports.Months()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Доступные месяцы", months)
}

// GetMonthTotals возвращает итоги месяца.
func (deps *ApiDependencies) GetMonthTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := deps.Reports.MonthTotals(chi.URLParam(r, "month"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Итоги месяца", totals)
}

// GetMonthShifts возвращает построчную разбивку месяца по сменам.
func (deps *ApiDependencies) GetMonthShifts(w http.ResponseWriter, r *http.Request) {
	rows, err := deps.Reports.MonthShiftRows(chi.URLParam(r, "month"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Смены месяца", rows)
}

// GetDayOrders возвращает заказы закрытой смены на дату.
func (deps *ApiDependencies) GetDayOrders(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	orders, totals, found, err := deps.Reports.DayOrders(date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		writeJSONError(w, http.StatusNotFound, "Закрытой смены на эту дату нет")
		return
	}
	writeJSONSuccess(w, "Заказы дня", DayOrdersResponse{Orders: orders, Totals: totals})
}

// GetDayHours возвращает распределение заказов дня по часам.
func (deps *ApiDependencies) GetDayHours(w http.ResponseWriter, r *http.Request) {
	buckets, err := deps.Reports.DayHours(chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Заказы по часам", buckets)
}
