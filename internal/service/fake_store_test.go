package service

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taxiledger/internal/constants"
	"taxiledger/internal/models"
	"taxiledger/internal/settlement"
)

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	ts, err := time.Parse(constants.DateOnlyFormat, date)
	require.NoError(t, err)
	return ts
}

// fakeStore — хранилище в памяти с той же семантикой, что у боевого:
// заказ и дельта безнала применяются вместе, закрыть можно только
// открытую смену.
type fakeStore struct {
	shifts      map[int64]*models.Shift
	orders      []models.Order
	balance     float64
	nextShiftID int64
	nextOrderID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{shifts: make(map[int64]*models.Shift)}
}

func (f *fakeStore) GetOpenShift() (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.IsOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetShiftByID(shiftID int64) (*models.Shift, error) {
	s, ok := f.shifts[shiftID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) CreateOpenShift(date string, openedAt time.Time) (int64, error) {
	f.nextShiftID++
	f.shifts[f.nextShiftID] = &models.Shift{
		ID:     f.nextShiftID,
		Date:   date,
		IsOpen: true,
	}
	return f.nextShiftID, nil
}

func (f *fakeStore) CloseShift(shiftID int64, km, fuelLiters, fuelPrice float64, closedAt time.Time) error {
	s := f.shifts[shiftID]
	s.IsOpen = false
	s.Km = km
	s.FuelLiters = fuelLiters
	s.FuelPrice = fuelPrice
	return nil
}

func (f *fakeStore) AppendOrderWithBalance(order models.Order) (int64, error) {
	f.nextOrderID++
	order.ID = f.nextOrderID
	f.orders = append(f.orders, order)
	f.balance += order.BeznalAdded
	return order.ID, nil
}

func (f *fakeStore) GetShiftOrders(shiftID int64) ([]models.Order, error) {
	var result []models.Order
	for _, o := range f.orders {
		if o.ShiftID == shiftID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeStore) GetShiftTotals(shiftID int64) (models.ShiftTotals, error) {
	var totals models.ShiftTotals
	for _, o := range f.orders {
		if o.ShiftID != shiftID {
			continue
		}
		switch o.Type {
		case constants.PAYMENT_CASH:
			totals.Cash += o.Total - o.Tips
		case constants.PAYMENT_CARD:
			totals.Card += o.Total - o.Tips
		}
		totals.Tips += o.Tips
		totals.BeznalDelta += o.BeznalAdded
	}
	return totals, nil
}

func (f *fakeStore) GetLastFuelShift() (*models.Shift, error) {
	var last *models.Shift
	for _, s := range f.shifts {
		if s.IsOpen || s.Km <= 0 || s.FuelLiters <= 0 || s.FuelPrice <= 0 {
			continue
		}
		if last == nil || s.ID > last.ID {
			last = s
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

func (f *fakeStore) GetAllOrders() ([]models.Order, error) {
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeStore) GetAccumulatedBeznal() (float64, error) {
	return f.balance, nil
}

func (f *fakeStore) GetShiftIDByDate(date string) (int64, bool, error) {
	var found *models.Shift
	for _, s := range f.shifts {
		if s.Date == date && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	if found == nil {
		return 0, false, nil
	}
	return found.ID, true, nil
}

func (f *fakeStore) CreateClosedShift(date string, ts time.Time) (int64, error) {
	f.nextShiftID++
	f.shifts[f.nextShiftID] = &models.Shift{
		ID:   f.nextShiftID,
		Date: date,
	}
	return f.nextShiftID, nil
}

func (f *fakeStore) SetAccumulatedBeznal(value float64) error {
	f.balance = value
	return nil
}

func (f *fakeStore) RebuildAccumulatedBeznal() (float64, error) {
	total := 0.0
	for _, o := range f.orders {
		total += o.BeznalAdded
	}
	f.balance = total
	return total, nil
}

func (f *fakeStore) RecalculateAllOrders(rates settlement.Rates) error {
	for i, o := range f.orders {
		res, err := rates.Settle(o.Amount, o.Tips, o.Type)
		if err != nil {
			return err
		}
		f.orders[i].Commission = res.Commission
		f.orders[i].Total = res.Total
		f.orders[i].BeznalAdded = res.BeznalAdded
	}
	_, err := f.RebuildAccumulatedBeznal()
	return err
}

func (f *fakeStore) Reset() error {
	f.shifts = make(map[int64]*models.Shift)
	f.orders = nil
	f.balance = 0
	return nil
}

func (f *fakeStore) GetAvailableMonths() ([]string, error) {
	seen := make(map[string]bool)
	for _, s := range f.shifts {
		if s.IsOpen || len(s.Date) < 7 {
			continue
		}
		if orders, _ := f.GetShiftOrders(s.ID); len(orders) == 0 {
			continue
		}
		seen[s.Date[:7]] = true
	}
	var months []string
	for ym := range seen {
		months = append(months, ym)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

func (f *fakeStore) GetMonthTotals(yearMonth string) (models.MonthTotals, error) {
	totals := models.MonthTotals{YearMonth: yearMonth}
	for _, s := range f.shifts {
		if s.IsOpen || !strings.HasPrefix(s.Date, yearMonth) {
			continue
		}
		st, _ := f.GetShiftTotals(s.ID)
		orders, _ := f.GetShiftOrders(s.ID)
		totals.Cash += st.Cash
		totals.Card += st.Card
		totals.Tips += st.Tips
		totals.BeznalDelta += st.BeznalDelta
		if len(orders) > 0 {
			totals.ShiftCount++
			totals.FuelCost += s.FuelLiters * s.FuelPrice
		}
	}
	totals.Income = totals.Cash + totals.Card + totals.Tips
	totals.Profit = totals.Income - totals.FuelCost
	totals.AccumulatedBeznal = f.balance
	return totals, nil
}

func (f *fakeStore) GetMonthShiftRows(yearMonth string) ([]models.ShiftReportRow, error) {
	var rows []models.ShiftReportRow
	for _, s := range f.shifts {
		if s.IsOpen || !strings.HasPrefix(s.Date, yearMonth) {
			continue
		}
		orders, _ := f.GetShiftOrders(s.ID)
		if len(orders) == 0 {
			continue
		}
		st, _ := f.GetShiftTotals(s.ID)
		rows = append(rows, models.ShiftReportRow{
			ShiftID:     s.ID,
			Date:        s.Date,
			Cash:        st.Cash,
			Card:        st.Card,
			Tips:        st.Tips,
			BeznalDelta: st.BeznalDelta,
			Km:          s.Km,
			FuelLiters:  s.FuelLiters,
			FuelPrice:   s.FuelPrice,
			Total:       st.Cash + st.Card + st.Tips,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].ShiftID < rows[j].ShiftID
	})
	return rows, nil
}

func (f *fakeStore) GetClosedShiftIDByDate(date string) (int64, bool, error) {
	var found *models.Shift
	for _, s := range f.shifts {
		if s.Date == date && !s.IsOpen && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	if found == nil {
		return 0, false, nil
	}
	return found.ID, true, nil
}

func (f *fakeStore) GetOrderTimesForDate(date string) ([]string, error) {
	var times []string
	for _, o := range f.orders {
		s, ok := f.shifts[o.ShiftID]
		if !ok || s.IsOpen || s.Date != date || o.OrderTime == "" {
			continue
		}
		times = append(times, o.OrderTime)
	}
	return times, nil
}
