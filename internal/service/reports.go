// internal/service/reports.go
package service

import (
	"fmt"
	"strconv"
	"time"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/models"
)

// Reporter строит отчеты по закрытым сменам: список месяцев, итоги и
// построчную разбивку месяца, детали дня и распределение заказов по часам.
type Reporter struct {
	store ReportStore
}

// NewReporter собирает сервис отчетов.
func NewReporter(store ReportStore) *Reporter {
	return &Reporter{store: store}
}

// Months возвращает месяцы с данными, от новых к старым, с русскими
// подписями для выбора.
func (r *Reporter) Months() ([]models.MonthOption, error) {
	months, err := r.store.GetAvailableMonths()
	if err != nil {
		return nil, err
	}
	options := make([]models.MonthOption, 0, len(months))
	for _, ym := range months {
		options = append(options, models.MonthOption{
			YearMonth: ym,
			Label:     FormatMonthOption(ym),
		})
	}
	return options, nil
}

// MonthTotals возвращает итоги месяца.
func (r *Reporter) MonthTotals(yearMonth string) (models.MonthTotals, error) {
	if err := validateYearMonth(yearMonth); err != nil {
		return models.MonthTotals{}, err
	}
	return r.store.GetMonthTotals(yearMonth)
}

// MonthShiftRows возвращает построчную разбивку месяца по сменам.
func (r *Reporter) MonthShiftRows(yearMonth string) ([]models.ShiftReportRow, error) {
	if err := validateYearMonth(yearMonth); err != nil {
		return nil, err
	}
	return r.store.GetMonthShiftRows(yearMonth)
}

// DayOrders возвращает заказы закрытой смены на дату вместе с агрегатами.
// Если смены на дату нет, заказы пустые, found = false.
func (r *Reporter) DayOrders(date string) ([]models.Order, models.ShiftTotals, bool, error) {
	normalized, err := NormalizeDate(date)
	if err != nil {
		return nil, models.ShiftTotals{}, false, err
	}
	shiftID, found, err := r.store.GetClosedShiftIDByDate(normalized)
	if err != nil || !found {
		return nil, models.ShiftTotals{}, false, err
	}
	orders, err := r.store.GetShiftOrders(shiftID)
	if err != nil {
		return nil, models.ShiftTotals{}, false, err
	}
	totals, err := r.store.GetShiftTotals(shiftID)
	if err != nil {
		return nil, models.ShiftTotals{}, false, err
	}
	return orders, totals, true, nil
}

// DayHours возвращает распределение заказов дня по 24 часовым корзинам.
func (r *Reporter) DayHours(date string) ([]models.HourBucket, error) {
	normalized, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	times, err := r.store.GetOrderTimesForDate(normalized)
	if err != nil {
		return nil, err
	}
	return BucketOrderTimes(times), nil
}

// BucketOrderTimes раскладывает времена заказов (свободный текст вида HH:MM)
// по 24 корзинам. Строки без разборного часа пропускаются, корзины с нулем
// заказов остаются в результате.
func BucketOrderTimes(times []string) []models.HourBucket {
	counts := make([]int, 24)
	for _, t := range times {
		if len(t) < 2 {
			continue
		}
		hour, err := strconv.Atoi(t[:2])
		if err != nil || hour < 0 || hour > 23 {
			continue
		}
		counts[hour]++
	}
	buckets := make([]models.HourBucket, 24)
	for h := range buckets {
		buckets[h] = models.HourBucket{Hour: h, Orders: counts[h]}
	}
	return buckets
}

// FormatMonthOption превращает YYYY-MM в подпись с русским названием месяца,
// например "2024-03 (март)". Неразборная строка возвращается как есть.
func FormatMonthOption(yearMonth string) string {
	parsed, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return yearMonth
	}
	return fmt.Sprintf("%s (%s)", yearMonth, constants.MonthMap[parsed.Month()])
}

func validateYearMonth(yearMonth string) error {
	if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return apperrors.NewValidation("некорректный месяц: '%s', ожидается YYYY-MM", yearMonth)
	}
	return nil
}
