package db

import (
	"database/sql"
	"log"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
)

// GetAccumulatedBeznal возвращает текущий накопленный безнал.
// Если строки нет (база еще не инициализировалась) — 0.
func (s *Store) GetAccumulatedBeznal() (float64, error) {
	var total float64
	query := `SELECT total_amount FROM accumulated_beznal WHERE driver_id = $1`
	err := s.db.QueryRow(query, constants.DriverID).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		log.Printf("GetAccumulatedBeznal: ошибка чтения баланса: %v", err)
		return 0, apperrors.NewStorage("GetAccumulatedBeznal", err)
	}
	return total, nil
}

// AdjustAccumulatedBeznal прибавляет дельту к накопленному безналу.
// Нулевая дельта не трогает базу.
func (s *Store) AdjustAccumulatedBeznal(delta float64) error {
	if delta == 0 {
		return nil
	}
	query := `UPDATE accumulated_beznal
              SET total_amount = total_amount + $1, last_updated = NOW()
              WHERE driver_id = $2`
	if _, err := s.db.Exec(query, delta, constants.DriverID); err != nil {
		log.Printf("AdjustAccumulatedBeznal: ошибка применения дельты %.2f: %v", delta, err)
		return apperrors.NewStorage("AdjustAccumulatedBeznal", err)
	}
	return nil
}

// SetAccumulatedBeznal безусловно перезаписывает накопленный безнал —
// ручная корректировка администратора. Значение может разойтись с суммой
// по заказам; это осознанно и лечится только явным пересбором.
func (s *Store) SetAccumulatedBeznal(value float64) error {
	query := `UPDATE accumulated_beznal
              SET total_amount = $1, last_updated = NOW()
              WHERE driver_id = $2`
	if _, err := s.db.Exec(query, value, constants.DriverID); err != nil {
		log.Printf("SetAccumulatedBeznal: ошибка установки значения %.2f: %v", value, err)
		return apperrors.NewStorage("SetAccumulatedBeznal", err)
	}
	log.Printf("Накопленный безнал вручную установлен в %.2f.", value)
	return nil
}

// RebuildAccumulatedBeznal пересобирает баланс как сумму beznal_added по
// всем заказам, затирая любое прежнее значение. Один UPDATE с подзапросом,
// поэтому отдельная транзакция не нужна.
func (s *Store) RebuildAccumulatedBeznal() (float64, error) {
	var total float64
	query := `UPDATE accumulated_beznal
              SET total_amount = (SELECT COALESCE(SUM(beznal_added), 0) FROM orders),
                  last_updated = NOW()
              WHERE driver_id = $1
              RETURNING total_amount`
	if err := s.db.QueryRow(query, constants.DriverID).Scan(&total); err != nil {
		log.Printf("RebuildAccumulatedBeznal: ошибка пересборки баланса: %v", err)
		return 0, apperrors.NewStorage("RebuildAccumulatedBeznal", err)
	}
	log.Printf("Накопленный безнал пересобран: %.2f.", total)
	return total, nil
}
