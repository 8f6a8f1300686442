package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"taxiledger/internal/service"
)

// SetBalanceRequest - структура запроса на ручную установку безнала
type SetBalanceRequest struct {
	Value float64 `json:"value"`
}

// ImportFile принимает файл выгрузки (multipart, поле "file") и импортирует
// заказы. Формат определяется по расширению: .csv как CSV, остальное как
// книга Excel.
func (deps *ApiDependencies) ImportFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректная multipart-форма: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "В форме нет файла 'file'")
		return
	}
	defer file.Close()

	var report service.ImportReport
	if strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		report, err = deps.Importer.ImportCSV(file)
	} else {
		report, err = deps.Importer.ImportXLSX(file)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Импорт завершен", report)
}

// GetAllOrders возвращает весь журнал заказов для ручной сверки.
func (deps *ApiDependencies) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := deps.Admin.AllOrders()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Журнал заказов", orders)
}

// SetBalance вручную перезаписывает накопленный безнал.
func (deps *ApiDependencies) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	if err := deps.Admin.SetBalance(req.Value); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Баланс установлен", map[string]float64{"balance": req.Value})
}

// RebuildBalance пересобирает накопленный безнал из заказов.
func (deps *ApiDependencies) RebuildBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := deps.Admin.Rebuild()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Баланс пересобран", map[string]float64{"balance": balance})
}

// Recalculate пересчитывает все заказы по текущим ставкам.
func (deps *ApiDependencies) Recalculate(w http.ResponseWriter, r *http.Request) {
	balance, err := deps.Admin.Recalculate()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "Заказы пересчитаны", map[string]float64{"balance": balance})
}

// ResetDatabase удаляет все данные. Необратимо.
func (deps *ApiDependencies) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := deps.Admin.Reset(); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, "База сброшена", nil)
}
