package constants

import "time"

// Payment Types
// Типы оплаты заказа
const (
	PAYMENT_CASH = "cash"
	PAYMENT_CARD = "card"
)

// CardAliases — значения колонки "Тип" при импорте, которые считаются картой.
// Сравнение регистронезависимое; всё остальное (включая пустую ячейку) — нал.
var CardAliases = map[string]bool{
	"card":   true,
	"карта":  true,
	"безнал": true,
}

// Default Rates and Fuel Parameters
// Ставки и топливные параметры по умолчанию
const (
	DEFAULT_CASH_PAYOUT_RATE = 0.78 // доля выручки, остающаяся водителю при нале
	DEFAULT_CARD_PAYOUT_RATE = 0.75 // доля выручки, остающаяся водителю при карте

	DEFAULT_FUEL_CONSUMPTION = 8.0  // л на 100 км
	DEFAULT_FUEL_PRICE       = 55.0 // руб/л
)

// Import Column Headers
// Заголовки колонок импорта (русские и английские варианты, без учета регистра)
var (
	ImportDateHeaders   = []string{"дата", "date"}
	ImportAmountHeaders = []string{"сумма", "приход", "amount"}
	ImportTypeHeaders   = []string{"тип", "type", "paymenttype"}
	ImportTipsHeaders   = []string{"чаевые", "tips"}
)

// DateOnlyFormat — каноническое представление даты смены в БД.
const DateOnlyFormat = "2006-01-02"

// DriverID — учёт ведётся для одного водителя; строка баланса всегда одна.
const DriverID = 1

var MonthMap = map[time.Month]string{
	time.January:   "январь",
	time.February:  "февраль",
	time.March:     "март",
	time.April:     "апрель",
	time.May:       "май",
	time.June:      "июнь",
	time.July:      "июль",
	time.August:    "август",
	time.September: "сентябрь",
	time.October:   "октябрь",
	time.November:  "ноябрь",
	time.December:  "декабрь",
}
