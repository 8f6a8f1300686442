package db

import (
	"database/sql"
	"log"
	"time"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/models"
)

// GetOpenShift возвращает открытую смену или nil, если открытой смены нет.
func (s *Store) GetOpenShift() (*models.Shift, error) {
	query := `SELECT id, date, km, fuel_liters, fuel_price, is_open, opened_at, closed_at
              FROM shifts WHERE is_open = TRUE LIMIT 1`
	shift, err := scanShift(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("GetOpenShift: ошибка запроса открытой смены: %v", err)
		return nil, apperrors.NewStorage("GetOpenShift", err)
	}
	return shift, nil
}

// GetShiftByID возвращает смену по идентификатору или nil, если ее нет.
func (s *Store) GetShiftByID(shiftID int64) (*models.Shift, error) {
	query := `SELECT id, date, km, fuel_liters, fuel_price, is_open, opened_at, closed_at
              FROM shifts WHERE id = $1`
	shift, err := scanShift(s.db.QueryRow(query, shiftID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("GetShiftByID: ошибка запроса смены #%d: %v", shiftID, err)
		return nil, apperrors.NewStorage("GetShiftByID", err)
	}
	return shift, nil
}

// CreateOpenShift создает новую открытую смену на указанную дату (YYYY-MM-DD).
func (s *Store) CreateOpenShift(date string, openedAt time.Time) (int64, error) {
	var id int64
	query := `INSERT INTO shifts (date, is_open, opened_at) VALUES ($1, TRUE, $2) RETURNING id`
	if err := s.db.QueryRow(query, date, openedAt).Scan(&id); err != nil {
		log.Printf("CreateOpenShift: ошибка создания смены на %s: %v", date, err)
		return 0, apperrors.NewStorage("CreateOpenShift", err)
	}
	log.Printf("Смена #%d открыта на дату %s.", id, date)
	return id, nil
}

// CloseShift переводит смену в закрытое состояние и сохраняет километраж
// и топливные параметры. Условие is_open = TRUE защищает от повторного
// закрытия на уровне запроса.
func (s *Store) CloseShift(shiftID int64, km, fuelLiters, fuelPrice float64, closedAt time.Time) error {
	query := `UPDATE shifts
              SET is_open = FALSE, km = $1, fuel_liters = $2, fuel_price = $3, closed_at = $4
              WHERE id = $5 AND is_open = TRUE`
	result, err := s.db.Exec(query, km, fuelLiters, fuelPrice, closedAt, shiftID)
	if err != nil {
		log.Printf("CloseShift: ошибка закрытия смены #%d: %v", shiftID, err)
		return apperrors.NewStorage("CloseShift", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.NewInvalidState("смена #%d не найдена или уже закрыта", shiftID)
	}
	log.Printf("Смена #%d закрыта (км: %.0f, литры: %.1f, цена: %.1f).", shiftID, km, fuelLiters, fuelPrice)
	return nil
}

// GetShiftIDByDate возвращает id любой смены на дату (для импорта:
// смена на дату создается только если ее еще нет, независимо от статуса).
func (s *Store) GetShiftIDByDate(date string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM shifts WHERE date = $1 ORDER BY id LIMIT 1`, date).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		log.Printf("GetShiftIDByDate: ошибка поиска смены на %s: %v", date, err)
		return 0, false, apperrors.NewStorage("GetShiftIDByDate", err)
	}
	return id, true, nil
}

// CreateClosedShift создает уже закрытую смену с нулевым километражом и
// топливом — так импорт заводит смены за прошедшие даты.
func (s *Store) CreateClosedShift(date string, ts time.Time) (int64, error) {
	var id int64
	query := `INSERT INTO shifts (date, is_open, opened_at, closed_at) VALUES ($1, FALSE, $2, $2) RETURNING id`
	if err := s.db.QueryRow(query, date, ts).Scan(&id); err != nil {
		log.Printf("CreateClosedShift: ошибка создания закрытой смены на %s: %v", date, err)
		return 0, apperrors.NewStorage("CreateClosedShift", err)
	}
	return id, nil
}

// GetLastFuelShift возвращает последнюю закрытую смену с ненулевыми
// километражом, литрами и ценой — источник подсказки расхода топлива.
// Возвращает nil, если такой смены еще нет.
func (s *Store) GetLastFuelShift() (*models.Shift, error) {
	query := `SELECT id, date, km, fuel_liters, fuel_price, is_open, opened_at, closed_at
              FROM shifts
              WHERE is_open = FALSE AND km > 0 AND fuel_liters > 0 AND fuel_price > 0
              ORDER BY closed_at DESC, id DESC
              LIMIT 1`
	shift, err := scanShift(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("GetLastFuelShift: ошибка запроса: %v", err)
		return nil, apperrors.NewStorage("GetLastFuelShift", err)
	}
	return shift, nil
}

func scanShift(row *sql.Row) (*models.Shift, error) {
	var shift models.Shift
	err := row.Scan(&shift.ID, &shift.Date, &shift.Km, &shift.FuelLiters, &shift.FuelPrice,
		&shift.IsOpen, &shift.OpenedAt, &shift.ClosedAt)
	if err != nil {
		return nil, err
	}
	return &shift, nil
}
