// Package apperrors содержит типизированные ошибки доменных операций.
// Обработчики API по типу ошибки выбирают HTTP-статус; сами тексты
// возвращаются пользователю как есть.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError — некорректные входные данные (нечисловая или
// неположительная сумма, нечисловые чаевые и т.п.). Запись не производится.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError — попытка открыть смену при уже открытой.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// InvalidStateError — операция не соответствует текущему состоянию смены
// (заказ в закрытую смену, повторное закрытие).
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

func NewInvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// ImportRowError — ошибка одной строки импорта (плохая сумма или дата).
// Импорт продолжается; такие ошибки считаются и попадают в итоговый отчет.
type ImportRowError struct {
	Row    int
	Reason string
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("строка %d: %s", e.Row, e.Reason)
}

func NewImportRow(row int, format string, args ...interface{}) *ImportRowError {
	return &ImportRowError{Row: row, Reason: fmt.Sprintf(format, args...)}
}

// StorageError — ошибка нижележащего хранилища. Операция прерывается,
// автоматических повторов нет.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ошибка хранилища (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict сообщает, является ли ошибка конфликтом состояния смен.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsInvalidState сообщает, нарушает ли операция жизненный цикл смены.
func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}
