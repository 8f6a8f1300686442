package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/models"
	"taxiledger/internal/service"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Shifts   *service.ShiftManager
	Importer *service.Importer
	Reports  *service.Reporter
	Admin    *service.Admin
}

// jsonResponse - вспомогательная структура для стандартного ответа API
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OpenShiftRequest - структура запроса на открытие смены
type OpenShiftRequest struct {
	Date string `json:"date"`
}

// AddOrderRequest - структура запроса на добавление заказа в смену
type AddOrderRequest struct {
	Amount    float64 `json:"amount"`
	Tips      float64 `json:"tips"`
	Type      string  `json:"type"`
	OrderTime string  `json:"order_time,omitempty"`
}

// CloseShiftRequest - структура запроса на закрытие смены
type CloseShiftRequest struct {
	Km         float64 `json:"km"`
	FuelLiters float64 `json:"fuel_liters"`
	FuelPrice  float64 `json:"fuel_price"`
}

// ShiftOrdersResponse - заказы смены вместе с агрегатами
type ShiftOrdersResponse struct {
	Orders []models.Order     `json:"orders"`
	Totals models.ShiftTotals `json:"totals"`
	Income float64            `json:"income"`
}

// CurrentShiftResponse - открытая смена с заказами, агрегатами и балансом
type CurrentShiftResponse struct {
	Shift   *models.Shift      `json:"shift"`
	Orders  []models.Order     `json:"orders"`
	Totals  models.ShiftTotals `json:"totals"`
	Income  float64            `json:"income"`
	Balance float64            `json:"balance"`
}

// --- Вспомогательные функции для JSON-ответов ---
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "success", Message: message, Data: data})
}

// writeServiceError переводит ошибку сервиса в HTTP-статус: ошибки валидации
// в 400, конфликты состояния в 409, всё остальное в 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsConflict(err), apperrors.IsInvalidState(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("Внутренняя ошибка обработчика: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

func shiftIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// GetCurrentShift возвращает открытую смену с ее заказами, агрегатами и
// текущим накопленным безналом, либо data: null, если смены нет.
func (deps *ApiDependencies) GetCurrentShift(w http.ResponseWriter, r *http.Request) {
	shift, err := deps.Shifts.Current()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if shift == nil {
		writeJSONSuccess(w, "Открытой смены нет", nil)
		return
	}

	orders, err := deps.Shifts.Orders(shift.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	totals, err := deps.Shifts.Totals(shift.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	balance, err := deps.Shifts.AccumulatedBeznal()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Текущая смена", CurrentShiftResponse{
		Shift:   shift,
		Orders:  orders,
		Totals:  totals,
		Income:  totals.Income(),
		Balance: balance,
	})
}

// OpenShift открывает новую смену.
func (deps *ApiDependencies) OpenShift(w http.ResponseWriter, r *http.Request) {
	var req OpenShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	shiftID, err := deps.Shifts.Open(req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Смена открыта", map[string]int64{"shift_id": shiftID})
}

// AddOrder добавляет заказ в открытую смену.
func (deps *ApiDependencies) AddOrder(w http.ResponseWriter, r *http.Request) {
	shiftID, err := shiftIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректный ID смены")
		return
	}
	var req AddOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	order, err := deps.Shifts.AddOrder(shiftID, req.Amount, req.Tips, req.Type, req.OrderTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Заказ добавлен", order)
}

// GetShiftOrders возвращает заказы смены и агрегаты по ним.
func (deps *ApiDependencies) GetShiftOrders(w http.ResponseWriter, r *http.Request) {
	shiftID, err := shiftIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректный ID смены")
		return
	}
	orders, err := deps.Shifts.Orders(shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	totals, err := deps.Shifts.Totals(shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Заказы смены", ShiftOrdersResponse{
		Orders: orders,
		Totals: totals,
		Income: totals.Income(),
	})
}

// CloseShift закрывает смену и возвращает ее итоги.
func (deps *ApiDependencies) CloseShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := shiftIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректный ID смены")
		return
	}
	var req CloseShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	summary, err := deps.Shifts.Close(shiftID, req.Km, req.FuelLiters, req.FuelPrice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Смена закрыта", summary)
}

// SuggestFuel возвращает расход и цену бензина для предзаполнения формы
// закрытия смены.
func (deps *ApiDependencies) SuggestFuel(w http.ResponseWriter, r *http.Request) {
	suggestion, err := deps.Shifts.SuggestFuelParams()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Параметры топлива", suggestion)
}

// GetBalance возвращает текущий накопленный безнал.
func (deps *ApiDependencies) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := deps.Shifts.AccumulatedBeznal()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Накопленный безнал", map[string]float64{"balance": balance})
}
