package db

import (
	"fmt"
	"log"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

// AppendOrderWithBalance записывает заказ и применяет его дельту к
// накопленному безналу в одной транзакции: либо обе записи, либо ни одной,
// иначе баланс разъедется с журналом заказов.
func (s *Store) AppendOrderWithBalance(order models.Order) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("AppendOrderWithBalance: ошибка начала транзакции: %v", err)
		return 0, apperrors.NewStorage("AppendOrderWithBalance", err)
	}
	var opErr error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if opErr != nil {
			log.Printf("AppendOrderWithBalance: откат транзакции из-за ошибки: %v", opErr)
			tx.Rollback()
		}
	}()

	var orderID int64
	insertSQL := `INSERT INTO orders (shift_id, type, amount, tips, commission, total, beznal_added, order_time)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                  RETURNING id`
	opErr = tx.QueryRow(insertSQL, order.ShiftID, order.Type, order.Amount, order.Tips,
		order.Commission, order.Total, order.BeznalAdded, order.OrderTime).Scan(&orderID)
	if opErr != nil {
		return 0, apperrors.NewStorage("AppendOrderWithBalance: insert", opErr)
	}

	// Нулевую дельту можно не применять, на корректность это не влияет.
	if order.BeznalAdded != 0 {
		updateSQL := `UPDATE accumulated_beznal
                      SET total_amount = total_amount + $1, last_updated = NOW()
                      WHERE driver_id = $2`
		if _, opErr = tx.Exec(updateSQL, order.BeznalAdded, constants.DriverID); opErr != nil {
			return 0, apperrors.NewStorage("AppendOrderWithBalance: balance", opErr)
		}
	}

	if opErr = tx.Commit(); opErr != nil {
		return 0, apperrors.NewStorage("AppendOrderWithBalance: commit", opErr)
	}
	return orderID, nil
}

// GetShiftOrders возвращает заказы смены в порядке добавления.
func (s *Store) GetShiftOrders(shiftID int64) ([]models.Order, error) {
	query := `SELECT id, shift_id, type, amount, tips, commission, total, beznal_added, COALESCE(order_time, '')
              FROM orders WHERE shift_id = $1 ORDER BY id`
	rows, err := s.db.Query(query, shiftID)
	if err != nil {
		log.Printf("GetShiftOrders: ошибка запроса заказов смены #%d: %v", shiftID, err)
		return nil, apperrors.NewStorage("GetShiftOrders", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ShiftID, &o.Type, &o.Amount, &o.Tips,
			&o.Commission, &o.Total, &o.BeznalAdded, &o.OrderTime); err != nil {
			return nil, apperrors.NewStorage("GetShiftOrders: scan", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("GetShiftOrders: rows", err)
	}
	return orders, nil
}

// GetShiftTotals возвращает агрегаты по заказам смены: нал и карта считаются
// как SUM(total - tips) по типу оплаты, чаевые и дельта безнала — отдельно.
func (s *Store) GetShiftTotals(shiftID int64) (models.ShiftTotals, error) {
	var t models.ShiftTotals
	query := `SELECT
                COALESCE(SUM(CASE WHEN type = $1 THEN total - tips END), 0),
                COALESCE(SUM(CASE WHEN type = $2 THEN total - tips END), 0),
                COALESCE(SUM(tips), 0),
                COALESCE(SUM(beznal_added), 0)
              FROM orders WHERE shift_id = $3`
	err := s.db.QueryRow(query, constants.PAYMENT_CASH, constants.PAYMENT_CARD, shiftID).
		Scan(&t.Cash, &t.Card, &t.Tips, &t.BeznalDelta)
	if err != nil {
		log.Printf("GetShiftTotals: ошибка агрегации по смене #%d: %v", shiftID, err)
		return models.ShiftTotals{}, apperrors.NewStorage("GetShiftTotals", err)
	}
	return t, nil
}

// GetAllOrders возвращает все заказы (для пересчета и проверок).
func (s *Store) GetAllOrders() ([]models.Order, error) {
	query := `SELECT id, shift_id, type, amount, tips, commission, total, beznal_added, COALESCE(order_time, '')
              FROM orders ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		log.Printf("GetAllOrders: ошибка запроса: %v", err)
		return nil, apperrors.NewStorage("GetAllOrders", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ShiftID, &o.Type, &o.Amount, &o.Tips,
			&o.Commission, &o.Total, &o.BeznalAdded, &o.OrderTime); err != nil {
			return nil, apperrors.NewStorage("GetAllOrders: scan", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("GetAllOrders: rows", err)
	}
	return orders, nil
}

// RecalculateAllOrders заново выводит commission, total и beznal_added
// каждого заказа из amount/tips/type по переданным ставкам и собирает
// накопленный безнал заново — все в одной транзакции, чтобы пересчет
// никогда не оставлял базу наполовину в старой логике.
func (s *Store) RecalculateAllOrders(rates settlement.Rates) error {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("RecalculateAllOrders: ошибка начала транзакции: %v", err)
		return apperrors.NewStorage("RecalculateAllOrders", err)
	}
	var opErr error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if opErr != nil {
			log.Printf("RecalculateAllOrders: откат транзакции из-за ошибки: %v", opErr)
			tx.Rollback()
		}
	}()

	rows, err := tx.Query(`SELECT id, type, amount, tips FROM orders ORDER BY id`)
	if err != nil {
		opErr = err
		return apperrors.NewStorage("RecalculateAllOrders: select", err)
	}

	type orderInput struct {
		id     int64
		typ    string
		amount float64
		tips   float64
	}
	var inputs []orderInput
	for rows.Next() {
		var in orderInput
		if err := rows.Scan(&in.id, &in.typ, &in.amount, &in.tips); err != nil {
			rows.Close()
			opErr = err
			return apperrors.NewStorage("RecalculateAllOrders: scan", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		opErr = err
		return apperrors.NewStorage("RecalculateAllOrders: rows", err)
	}
	rows.Close()

	for _, in := range inputs {
		res, errSettle := rates.Settle(in.amount, in.tips, in.typ)
		if errSettle != nil {
			// Все пути записи валидируют сумму, так что это повреждение
			// данных; частичный пересчет смешал бы две логики ставок.
			opErr = fmt.Errorf("заказ #%d не прошел пересчет: %w", in.id, errSettle)
			return opErr
		}
		updateSQL := `UPDATE orders SET commission = $1, total = $2, beznal_added = $3 WHERE id = $4`
		if _, opErr = tx.Exec(updateSQL, res.Commission, res.Total, res.BeznalAdded, in.id); opErr != nil {
			return apperrors.NewStorage("RecalculateAllOrders: update", opErr)
		}
	}

	rebuildSQL := `UPDATE accumulated_beznal
                   SET total_amount = (SELECT COALESCE(SUM(beznal_added), 0) FROM orders),
                       last_updated = NOW()
                   WHERE driver_id = $1`
	if _, opErr = tx.Exec(rebuildSQL, constants.DriverID); opErr != nil {
		return apperrors.NewStorage("RecalculateAllOrders: rebuild", opErr)
	}

	if opErr = tx.Commit(); opErr != nil {
		return apperrors.NewStorage("RecalculateAllOrders: commit", opErr)
	}
	log.Printf("Пересчитано заказов: %d. Накопленный безнал собран заново.", len(inputs))
	return nil
}
