package db

import (
	"database/sql"
	"log"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/models"
)

// Отчеты строятся только по закрытым сменам, у которых есть хотя бы один
// заказ — как и в остальных выборках этого файла.

// GetAvailableMonths возвращает месяцы (YYYY-MM) по убыванию.
func (s *Store) GetAvailableMonths() ([]string, error) {
	query := `SELECT DISTINCT LEFT(date, 7)
              FROM shifts
              WHERE date IS NOT NULL AND TRIM(date) <> ''
                AND is_open = FALSE
                AND EXISTS (SELECT 1 FROM orders o WHERE o.shift_id = shifts.id)
              ORDER BY 1 DESC`
	rows, err := s.db.Query(query)
	if err != nil {
		log.Printf("GetAvailableMonths: ошибка запроса: %v", err)
		return nil, apperrors.NewStorage("GetAvailableMonths", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var ym string
		if err := rows.Scan(&ym); err != nil {
			return nil, apperrors.NewStorage("GetAvailableMonths: scan", err)
		}
		months = append(months, ym)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("GetAvailableMonths: rows", err)
	}
	return months, nil
}

// GetMonthTotals возвращает итоги месяца: разбивку по типам оплаты,
// чаевые, дельту безнала, бензин, число смен и текущий накопленный безнал.
func (s *Store) GetMonthTotals(yearMonth string) (models.MonthTotals, error) {
	totals := models.MonthTotals{YearMonth: yearMonth}

	aggSQL := `SELECT
                 COALESCE(SUM(CASE WHEN o.type = $1 THEN o.total - o.tips END), 0),
                 COALESCE(SUM(CASE WHEN o.type = $2 THEN o.total - o.tips END), 0),
                 COALESCE(SUM(o.tips), 0),
                 COALESCE(SUM(o.beznal_added), 0)
               FROM orders o
               JOIN shifts s ON s.id = o.shift_id
               WHERE s.date LIKE $3 || '%' AND s.is_open = FALSE`
	err := s.db.QueryRow(aggSQL, constants.PAYMENT_CASH, constants.PAYMENT_CARD, yearMonth).
		Scan(&totals.Cash, &totals.Card, &totals.Tips, &totals.BeznalDelta)
	if err != nil {
		log.Printf("GetMonthTotals: ошибка агрегации заказов за %s: %v", yearMonth, err)
		return models.MonthTotals{}, apperrors.NewStorage("GetMonthTotals", err)
	}

	shiftSQL := `SELECT COUNT(*), COALESCE(SUM(fuel_liters * fuel_price), 0)
                 FROM shifts
                 WHERE date LIKE $1 || '%' AND is_open = FALSE
                   AND EXISTS (SELECT 1 FROM orders o WHERE o.shift_id = shifts.id)`
	if err := s.db.QueryRow(shiftSQL, yearMonth).Scan(&totals.ShiftCount, &totals.FuelCost); err != nil {
		log.Printf("GetMonthTotals: ошибка агрегации смен за %s: %v", yearMonth, err)
		return models.MonthTotals{}, apperrors.NewStorage("GetMonthTotals: shifts", err)
	}

	acc, err := s.GetAccumulatedBeznal()
	if err != nil {
		return models.MonthTotals{}, err
	}
	totals.AccumulatedBeznal = acc
	totals.Income = totals.Cash + totals.Card + totals.Tips
	totals.Profit = totals.Income - totals.FuelCost
	return totals, nil
}

// GetMonthShiftRows возвращает строки месячного отчета: по одной на каждую
// закрытую смену месяца с заказами.
func (s *Store) GetMonthShiftRows(yearMonth string) ([]models.ShiftReportRow, error) {
	query := `SELECT s.id, s.date, s.km, s.fuel_liters, s.fuel_price,
                 COALESCE(SUM(CASE WHEN o.type = $1 THEN o.total - o.tips END), 0),
                 COALESCE(SUM(CASE WHEN o.type = $2 THEN o.total - o.tips END), 0),
                 COALESCE(SUM(o.tips), 0),
                 COALESCE(SUM(o.beznal_added), 0)
              FROM shifts s
              JOIN orders o ON o.shift_id = s.id
              WHERE s.date LIKE $3 || '%' AND s.is_open = FALSE
              GROUP BY s.id, s.date, s.km, s.fuel_liters, s.fuel_price
              ORDER BY s.date, s.id`
	rows, err := s.db.Query(query, constants.PAYMENT_CASH, constants.PAYMENT_CARD, yearMonth)
	if err != nil {
		log.Printf("GetMonthShiftRows: ошибка запроса за %s: %v", yearMonth, err)
		return nil, apperrors.NewStorage("GetMonthShiftRows", err)
	}
	defer rows.Close()

	var result []models.ShiftReportRow
	for rows.Next() {
		var r models.ShiftReportRow
		if err := rows.Scan(&r.ShiftID, &r.Date, &r.Km, &r.FuelLiters, &r.FuelPrice,
			&r.Cash, &r.Card, &r.Tips, &r.BeznalDelta); err != nil {
			return nil, apperrors.NewStorage("GetMonthShiftRows: scan", err)
		}
		r.Total = r.Cash + r.Card + r.Tips
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("GetMonthShiftRows: rows", err)
	}
	return result, nil
}

// GetClosedShiftIDByDate возвращает id первой закрытой смены на дату.
func (s *Store) GetClosedShiftIDByDate(date string) (int64, bool, error) {
	var id int64
	query := `SELECT id FROM shifts WHERE date = $1 AND is_open = FALSE ORDER BY id LIMIT 1`
	err := s.db.QueryRow(query, date).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		log.Printf("GetClosedShiftIDByDate: ошибка поиска смены на %s: %v", date, err)
		return 0, false, apperrors.NewStorage("GetClosedShiftIDByDate", err)
	}
	return id, true, nil
}

// GetOrderTimesForDate возвращает order_time всех заказов закрытых смен
// указанной даты; разбор по часам делает вызывающий код.
func (s *Store) GetOrderTimesForDate(date string) ([]string, error) {
	query := `SELECT o.order_time
              FROM orders o
              JOIN shifts s ON o.shift_id = s.id
              WHERE s.date = $1 AND s.is_open = FALSE AND o.order_time IS NOT NULL`
	rows, err := s.db.Query(query, date)
	if err != nil {
		log.Printf("GetOrderTimesForDate: ошибка запроса за %s: %v", date, err)
		return nil, apperrors.NewStorage("GetOrderTimesForDate", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperrors.NewStorage("GetOrderTimesForDate: scan", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("GetOrderTimesForDate: rows", err)
	}
	return times, nil
}
