package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
	"taxiledger/internal/settlement"
)

func newTestImporter(store *fakeStore) *Importer {
	return NewImporter(store, settlement.DefaultRates())
}

func TestImportSkipsBadRows(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Type: "карта", Amount: "1000", Tips: "50"},
		{Line: 3, Date: "2024-03-01", Type: "", Amount: "", Tips: ""},          // пустая сумма
		{Line: 4, Date: "2024-03-01", Type: "", Amount: "abc", Tips: ""},      // мусор в сумме
		{Line: 5, Date: "вчера", Type: "", Amount: "500", Tips: ""},           // плохая дата
		{Line: 6, Date: "2024-03-01", Type: "", Amount: "650", Tips: ""},      // валидный нал
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Errors)
	assert.Len(t, report.RowErrors, 3)
	assert.NotEmpty(t, report.BatchID)

	orders, _ := store.GetShiftOrders(1)
	assert.Len(t, orders, 2, "отброшенные строки заказов не создают")
}

func TestImportCardAliases(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Type: "Карта", Amount: "100"},
		{Line: 3, Date: "2024-03-01", Type: "БЕЗНАЛ", Amount: "100"},
		{Line: 4, Date: "2024-03-01", Type: "card", Amount: "100"},
		{Line: 5, Date: "2024-03-01", Type: "наличные", Amount: "100"}, // не алиас, значит нал
		{Line: 6, Date: "2024-03-01", Type: "", Amount: "100"},
	})
	require.NoError(t, err)
	require.Equal(t, 5, report.Imported)

	orders, _ := store.GetShiftOrders(1)
	var cards, cash int
	for _, o := range orders {
		if o.Type == constants.PAYMENT_CARD {
			cards++
		} else {
			cash++
		}
	}
	assert.Equal(t, 3, cards)
	assert.Equal(t, 2, cash)
}

func TestImportDecimalCommaAndTipsGarbage(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Type: "карта", Amount: " 1250,50 ", Tips: "нет"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	orders, _ := store.GetShiftOrders(1)
	require.Len(t, orders, 1)
	assert.InDelta(t, 1250.50, orders[0].Amount, 1e-9)
	assert.InDelta(t, 0.0, orders[0].Tips, 1e-9, "мусорные чаевые считаются нулем")
}

func TestImportReusesShiftPerDate(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Amount: "100"},
		{Line: 3, Date: "01.03.2024", Amount: "200"}, // та же дата в другом формате
		{Line: 4, Date: "2024-03-02", Amount: "300"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, report.Imported)

	assert.Len(t, store.shifts, 2, "на одну дату создается одна смена")
	for _, s := range store.shifts {
		assert.False(t, s.IsOpen, "импорт создает только закрытые смены")
	}
}

func TestImportReusesExistingShift(t *testing.T) {
	store := newFakeStore()
	shiftID, err := store.CreateClosedShift("2024-03-01", mustDate(t, "2024-03-01"))
	require.NoError(t, err)

	im := newTestImporter(store)
	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Amount: "100"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	assert.Len(t, store.shifts, 1)
	orders, _ := store.GetShiftOrders(shiftID)
	assert.Len(t, orders, 1)
}

func TestImportUpdatesBalance(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	report, err := im.ImportRows([]ImportRow{
		{Line: 2, Date: "2024-03-01", Type: "карта", Amount: "1000"}, // +750
		{Line: 3, Date: "2024-03-01", Type: "", Amount: "1000"},      // -220
	})
	require.NoError(t, err)
	assert.InDelta(t, 530.0, report.Balance, 1e-9)
}

func TestImportCSV(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	csvData := "Дата,Тип,Сумма,Чаевые\n" +
		"2024-03-01,карта,1000,50\n" +
		"2024-03-01,,650,\n" +
		"2024-03-01,,,\n"
	report, err := im.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Errors)
}

func TestImportCSVEnglishHeaders(t *testing.T) {
	store := newFakeStore()
	im := newTestImporter(store)

	csvData := "Date,Type,Amount,Tips\n2024-03-01,card,1000,0\n"
	report, err := im.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	orders, _ := store.GetShiftOrders(1)
	require.Len(t, orders, 1)
	assert.Equal(t, constants.PAYMENT_CARD, orders[0].Type)
}

func TestImportMissingAmountColumn(t *testing.T) {
	im := newTestImporter(newFakeStore())

	_, err := im.ImportCSV(strings.NewReader("Дата,Тип\n2024-03-01,карта\n"))
	assert.True(t, apperrors.IsValidation(err), "без колонки суммы импортировать нечего")
}

func TestImportEmptyFile(t *testing.T) {
	im := newTestImporter(newFakeStore())

	_, err := im.ImportCSV(strings.NewReader(""))
	assert.True(t, apperrors.IsValidation(err))
}
