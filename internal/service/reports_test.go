package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/settlement"
)

func seedMonth(t *testing.T, store *fakeStore) {
	t.Helper()
	m := NewShiftManager(store, settlement.DefaultRates(),
		constants.DEFAULT_FUEL_CONSUMPTION, constants.DEFAULT_FUEL_PRICE)

	shiftID, err := m.Open("2024-03-01")
	require.NoError(t, err)
	_, err = m.AddOrder(shiftID, 650, 0, constants.PAYMENT_CASH, "09:15")
	require.NoError(t, err)
	_, err = m.AddOrder(shiftID, 1000, 50, constants.PAYMENT_CARD, "09:40")
	require.NoError(t, err)
	_, err = m.AddOrder(shiftID, 400, 0, constants.PAYMENT_CASH, "23:05")
	require.NoError(t, err)
	_, err = m.Close(shiftID, 210, 16, 55)
	require.NoError(t, err)

	shiftID, err = m.Open("2024-02-10")
	require.NoError(t, err)
	_, err = m.AddOrder(shiftID, 300, 0, constants.PAYMENT_CASH, "12:00")
	require.NoError(t, err)
	_, err = m.Close(shiftID, 100, 8, 55)
	require.NoError(t, err)
}

func TestMonths(t *testing.T) {
	store := newFakeStore()
	seedMonth(t, store)
	r := NewReporter(store)

	months, err := r.Months()
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-03", months[0].YearMonth, "новые месяцы первыми")
	assert.Equal(t, "2024-03 (март)", months[0].Label)
	assert.Equal(t, "2024-02 (февраль)", months[1].Label)
}

func TestMonthTotals(t *testing.T) {
	store := newFakeStore()
	seedMonth(t, store)
	r := NewReporter(store)

	totals, err := r.MonthTotals("2024-03")
	require.NoError(t, err)

	assert.InDelta(t, 1050.0, totals.Cash, 1e-9) // 650 + 400
	assert.InDelta(t, 750.0, totals.Card, 1e-9)
	assert.InDelta(t, 50.0, totals.Tips, 1e-9)
	assert.InDelta(t, 1850.0, totals.Income, 1e-9)
	assert.InDelta(t, 880.0, totals.FuelCost, 1e-9)
	assert.InDelta(t, 970.0, totals.Profit, 1e-9)
	assert.Equal(t, 1, totals.ShiftCount)
}

func TestMonthTotalsRejectsBadMonth(t *testing.T) {
	r := NewReporter(newFakeStore())

	_, err := r.MonthTotals("март 2024")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMonthShiftRows(t *testing.T) {
	store := newFakeStore()
	seedMonth(t, store)
	r := NewReporter(store)

	rows, err := r.MonthShiftRows("2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-01", rows[0].Date)
	assert.InDelta(t, 1850.0, rows[0].Total, 1e-9)
	assert.InDelta(t, 210.0, rows[0].Km, 1e-9)
}

func TestDayOrders(t *testing.T) {
	store := newFakeStore()
	seedMonth(t, store)
	r := NewReporter(store)

	orders, totals, found, err := r.DayOrders("01.03.2024")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, orders, 3)
	assert.InDelta(t, 1050.0, totals.Cash, 1e-9)

	_, _, found, err = r.DayOrders("2024-03-02")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDayHours(t *testing.T) {
	store := newFakeStore()
	seedMonth(t, store)
	r := NewReporter(store)

	buckets, err := r.DayHours("2024-03-01")
	require.NoError(t, err)
	require.Len(t, buckets, 24)
	assert.Equal(t, 2, buckets[9].Orders)
	assert.Equal(t, 1, buckets[23].Orders)
	assert.Equal(t, 0, buckets[12].Orders)
}

func TestBucketOrderTimes(t *testing.T) {
	buckets := BucketOrderTimes([]string{"09:15", "09:59", "23:00", "мусор", "7:30", ""})
	require.Len(t, buckets, 24)

	assert.Equal(t, 2, buckets[9].Orders)
	assert.Equal(t, 1, buckets[23].Orders)
	// "7:30" без ведущего нуля не разбирается ("7:" не число), как и мусор.
	total := 0
	for _, b := range buckets {
		total += b.Orders
	}
	assert.Equal(t, 3, total)
}

func TestFormatMonthOption(t *testing.T) {
	assert.Equal(t, "2024-03 (март)", FormatMonthOption("2024-03"))
	assert.Equal(t, "2023-12 (декабрь)", FormatMonthOption("2023-12"))
	assert.Equal(t, "не месяц", FormatMonthOption("не месяц"))
}
