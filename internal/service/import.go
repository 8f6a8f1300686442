// internal/service/import.go
package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

// Importer — пакетная заливка заказов из табличного источника (Excel/CSV).
// Каждая валидная строка проходит через тот же расчет, что и ручной ввод,
// и сразу меняет накопленный безнал. Смена на дату создается закрытой и
// только если смены с такой датой еще нет.
type Importer struct {
	store ImportStore
	rates settlement.Rates
}

// NewImporter собирает импортер.
func NewImporter(store ImportStore, rates settlement.Rates) *Importer {
	return &Importer{store: store, rates: rates}
}

// ImportRow — сырые ячейки одной строки источника.
type ImportRow struct {
	Line   int // номер строки в файле, для сообщений об ошибках
	Date   string
	Type   string
	Amount string
	Tips   string
}

// ImportReport — итог импорта: сколько строк залито, сколько отброшено
// и почему. Отброшенные строки не создают ни смен, ни заказов.
type ImportReport struct {
	BatchID   string   `json:"batch_id"`
	Imported  int      `json:"imported"`
	Errors    int      `json:"errors"`
	RowErrors []string `json:"row_errors,omitempty"`
	Balance   float64  `json:"balance"` // накопленный безнал после импорта
}

// ImportXLSX читает первый лист книги Excel и импортирует его строки.
func (im *Importer) ImportXLSX(r io.Reader) (ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportReport{}, apperrors.NewValidation("не удалось прочитать файл Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportReport{}, apperrors.NewValidation("в книге Excel нет листов")
	}
	table, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportReport{}, apperrors.NewValidation("не удалось прочитать лист '%s': %v", sheets[0], err)
	}
	rows, err := tableToRows(table)
	if err != nil {
		return ImportReport{}, err
	}
	return im.ImportRows(rows)
}

// ImportCSV читает CSV и импортирует его строки.
func (im *Importer) ImportCSV(r io.Reader) (ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	table, err := reader.ReadAll()
	if err != nil {
		return ImportReport{}, apperrors.NewValidation("не удалось прочитать CSV: %v", err)
	}
	rows, err := tableToRows(table)
	if err != nil {
		return ImportReport{}, err
	}
	return im.ImportRows(rows)
}

// ImportRows импортирует уже разобранные строки. Строка с плохой суммой или
// датой пропускается и считается ошибкой, импорт продолжается; ошибка
// хранилища прерывает импорт целиком.
func (im *Importer) ImportRows(rows []ImportRow) (ImportReport, error) {
	report := ImportReport{BatchID: uuid.New().String()}
	log.Printf("Импорт %s: строк к обработке: %d.", report.BatchID, len(rows))

	// Смены, уже найденные или созданные в этом импорте.
	shiftByDate := make(map[string]int64)

	for _, row := range rows {
		amount, ok := parseNumberCell(row.Amount)
		if !ok {
			report.rowError(row.Line, fmt.Sprintf("пустая или некорректная сумма (%q)", row.Amount))
			continue
		}

		date, err := NormalizeDate(row.Date)
		if err != nil {
			report.rowError(row.Line, fmt.Sprintf("пустая или некорректная дата (%q)", row.Date))
			continue
		}

		paymentType := constants.PAYMENT_CASH
		if constants.CardAliases[strings.ToLower(strings.TrimSpace(row.Type))] {
			paymentType = constants.PAYMENT_CARD
		}

		tips, ok := parseNumberCell(row.Tips)
		if !ok {
			tips = 0 // чаевые необязательны, мусор в ячейке равен нулю
		}

		res, err := im.rates.Settle(amount, tips, paymentType)
		if err != nil {
			report.rowError(row.Line, err.Error())
			continue
		}

		shiftID, found := shiftByDate[date]
		if !found {
			var err error
			shiftID, err = im.ensureShift(date)
			if err != nil {
				return report, err
			}
			shiftByDate[date] = shiftID
		}

		order := models.Order{
			ShiftID:     shiftID,
			Type:        paymentType,
			Amount:      amount,
			Tips:        tips,
			Commission:  res.Commission,
			Total:       res.Total,
			BeznalAdded: res.BeznalAdded,
		}
		if _, err := im.store.AppendOrderWithBalance(order); err != nil {
			return report, err
		}
		report.Imported++
	}

	balance, err := im.store.GetAccumulatedBeznal()
	if err != nil {
		return report, err
	}
	report.Balance = balance

	log.Printf("Импорт %s завершен: импортировано %d, ошибок %d.", report.BatchID, report.Imported, report.Errors)
	return report, nil
}

// ensureShift возвращает смену на дату, создавая закрытую при отсутствии.
func (im *Importer) ensureShift(date string) (int64, error) {
	shiftID, found, err := im.store.GetShiftIDByDate(date)
	if err != nil {
		return 0, err
	}
	if found {
		return shiftID, nil
	}
	ts, _ := time.Parse(constants.DateOnlyFormat, date) // date уже нормализована
	return im.store.CreateClosedShift(date, ts)
}

func (r *ImportReport) rowError(line int, reason string) {
	r.Errors++
	rowErr := apperrors.NewImportRow(line, "%s", reason)
	r.RowErrors = append(r.RowErrors, rowErr.Error())
	log.Printf("Импорт: %s, строка пропущена.", rowErr)
}

// tableToRows находит колонки по заголовкам (русские и английские варианты,
// без учета регистра) и раскладывает таблицу в ImportRow. Колонка суммы
// обязательна, без нее импортировать нечего.
func tableToRows(table [][]string) ([]ImportRow, error) {
	if len(table) == 0 {
		return nil, apperrors.NewValidation("файл пуст")
	}

	header := table[0]
	dateCol := findColumn(header, constants.ImportDateHeaders)
	amountCol := findColumn(header, constants.ImportAmountHeaders)
	typeCol := findColumn(header, constants.ImportTypeHeaders)
	tipsCol := findColumn(header, constants.ImportTipsHeaders)

	if amountCol < 0 {
		return nil, apperrors.NewValidation("в файле нет колонки 'Сумма'")
	}

	var rows []ImportRow
	for i, record := range table[1:] {
		rows = append(rows, ImportRow{
			Line:   i + 2, // +1 за заголовок, +1 за нумерацию с единицы
			Date:   cellAt(record, dateCol),
			Type:   cellAt(record, typeCol),
			Amount: cellAt(record, amountCol),
			Tips:   cellAt(record, tipsCol),
		})
	}
	return rows, nil
}

func findColumn(header []string, names []string) int {
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

func cellAt(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}

// parseNumberCell разбирает числовую ячейку: обрезает пробелы, принимает
// запятую как десятичный разделитель. Пустая или нечисловая ячейка — не ok.
func parseNumberCell(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
