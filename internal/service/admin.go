// internal/service/admin.go
package service

import (
	"log"

	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

// Admin — административные операции: ручная правка накопленного безнала,
// пересчет всех заказов по текущим ставкам и полный сброс базы.
type Admin struct {
	store AdminStore
	rates settlement.Rates
}

// NewAdmin собирает административный сервис.
func NewAdmin(store AdminStore, rates settlement.Rates) *Admin {
	return &Admin{store: store, rates: rates}
}

// AllOrders возвращает весь журнал заказов в порядке записи — выгрузка
// для ручной сверки.
func (a *Admin) AllOrders() ([]models.Order, error) {
	return a.store.GetAllOrders()
}

// Balance возвращает текущий накопленный безнал.
func (a *Admin) Balance() (float64, error) {
	return a.store.GetAccumulatedBeznal()
}

// SetBalance безусловно перезаписывает накопленный безнал. Значение не
// сверяется с суммой по заказам; расхождение устраняет только Rebuild.
func (a *Admin) SetBalance(value float64) error {
	return a.store.SetAccumulatedBeznal(value)
}

// Rebuild пересобирает накопленный безнал из сумм beznal_added по всем
// заказам и возвращает итог.
func (a *Admin) Rebuild() (float64, error) {
	return a.store.RebuildAccumulatedBeznal()
}

// Recalculate пересчитывает комиссию, итог и дельту безнала всех заказов по
// текущим ставкам и пересобирает баланс. Выполняется одной транзакцией в
// хранилище; возвращает баланс после пересчета.
func (a *Admin) Recalculate() (float64, error) {
	if err := a.store.RecalculateAllOrders(a.rates); err != nil {
		return 0, err
	}
	balance, err := a.store.GetAccumulatedBeznal()
	if err != nil {
		return 0, err
	}
	log.Printf("Пересчет заказов завершен, накопленный безнал: %.2f.", balance)
	return balance, nil
}

// Reset удаляет все смены и заказы и обнуляет накопленный безнал.
// Необратимо.
func (a *Admin) Reset() error {
	log.Printf("Запрошен полный сброс базы.")
	return a.store.Reset()
}
