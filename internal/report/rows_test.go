package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wb-ledger-bot/internal/types"
)

func sampleEntries() map[types.Key]*types.LedgerEntry {
	return map[types.Key]*types.LedgerEntry{
		{Date: "2024-03-01", NmID: 11}: {
			OrdersCount: 2, OrdersAmount: 1000,
			SalesQuantity: 1, SalesAmount: 500,
			Commission: 50, ForPay: 450, NetPayable: 400,
		},
		{Date: "2024-03-02", NmID: 22}: {
			OrdersCount: 1, OrdersAmount: 300,
			SalesQuantity: 1, SalesAmount: 300,
			Commission: 30, ForPay: 270, NetPayable: 240,
		},
	}
}

func TestDailyTableLayout(t *testing.T) {
	table := dailyTable(sampleEntries())

	assert.Equal(t, "По дням", table.Name)
	assert.True(t, table.HeaderBold)
	assert.Equal(t, 1, table.FreezeRows)
	require.NotEmpty(t, table.Columns)
	assert.Equal(t, "Дата", table.Columns[0].Title)

	// Two data rows, the totals row, the share-of-sales row.
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "2024-03-01", table.Rows[0][0].Value)
	assert.Equal(t, "2024-03-02", table.Rows[1][0].Value)

	totals := table.Rows[2]
	assert.Equal(t, "Факт", totals[0].Value)
	assert.True(t, totals[0].Bold)

	share := table.Rows[3]
	assert.Equal(t, "% от продаж", share[0].Value)
	// The commission column carries a percent cell in the share row.
	commissionIdx := columnIndex(t, table, "Комиссия")
	cell := share[commissionIdx]
	require.NotNil(t, cell.Value)
	assert.Equal(t, types.FormatPercent, cell.Format)
	assert.InDelta(t, 0.1, cell.Value.(float64), 1e-9, "80 of 800 sales")
}

func TestDailyTableRowsSorted(t *testing.T) {
	table := dailyTable(sampleEntries())
	assert.Less(t,
		table.Rows[0][0].Value.(string),
		table.Rows[1][0].Value.(string))
}

func TestProductTableRatios(t *testing.T) {
	entries := map[types.Key]*types.LedgerEntry{
		{NmID: 11}: {
			OrdersCount: 4, SalesQuantity: 2, SalesAmount: 1000,
			Advertising: 50, BuyoutPct: 0.5, AdSpendRatio: 0.05,
		},
	}
	table := productTable(entries)

	assert.Equal(t, "По товарам", table.Name)
	assert.Equal(t, "Артикул", table.Columns[0].Title)
	assert.Equal(t, "% выкупа", table.Columns[len(table.Columns)-2].Title)
	assert.Equal(t, "% ДРР", table.Columns[len(table.Columns)-1].Title)

	require.Len(t, table.Rows, 2)
	row := table.Rows[0]
	assert.Equal(t, int64(11), row[0].Value)
	assert.InDelta(t, 0.5, row[len(row)-2].Value.(float64), 1e-9)
	assert.InDelta(t, 0.05, row[len(row)-1].Value.(float64), 1e-9)
}

func TestUnitTablePerDayPerProduct(t *testing.T) {
	entries := map[types.Key]*types.LedgerEntry{
		{Date: "2024-03-01", NmID: 11}: {
			OrdersCount: 2, SalesQuantity: 1, SalesAmount: 500,
			Advertising: 25, BuyoutPct: 0.5, AdSpendRatio: 0.05,
		},
		{Date: "2024-03-02", NmID: 11}: {
			OrdersCount: 1, SalesQuantity: 1, SalesAmount: 300,
		},
		{Date: "2024-03-01", NmID: 22}: {
			OrdersCount: 1, SalesQuantity: 0, SalesAmount: 0,
		},
	}
	table := unitTable(entries)

	assert.Equal(t, "Юнит-экономика", table.Name)
	assert.Equal(t, "Дата", table.Columns[0].Title)
	assert.Equal(t, "Артикул", table.Columns[1].Title)
	assert.Equal(t, 2, table.FreezeCols, "date and product columns stay pinned")

	// Three (date, product) rows plus totals, sorted by date then product.
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "2024-03-01", table.Rows[0][0].Value)
	assert.Equal(t, int64(11), table.Rows[0][1].Value)
	assert.Equal(t, int64(22), table.Rows[1][1].Value)
	assert.Equal(t, "2024-03-02", table.Rows[2][0].Value)

	row := table.Rows[0]
	assert.InDelta(t, 0.5, row[len(row)-2].Value.(float64), 1e-9)
	assert.InDelta(t, 0.05, row[len(row)-1].Value.(float64), 1e-9)

	totals := table.Rows[3]
	assert.Equal(t, "Факт", totals[0].Value)
	assert.Nil(t, totals[1].Value, "totals span products, so no single артикул")
	assert.InDelta(t, 0.5, totals[len(totals)-2].Value.(float64), 1e-9, "2 sold of 4 ordered")
}

func TestShareRowBlankWithoutSales(t *testing.T) {
	table := dailyTable(map[types.Key]*types.LedgerEntry{
		{Date: "2024-03-01"}: {OrdersCount: 1, OrdersAmount: 100},
	})
	share := table.Rows[len(table.Rows)-1]
	for _, cell := range share[1:] {
		assert.Nil(t, cell.Value, "no sales means no meaningful ratios")
	}
}

func columnIndex(t *testing.T, table types.Table, title string) int {
	t.Helper()
	for i, c := range table.Columns {
		if c.Title == title {
			return i
		}
	}
	t.Fatalf("column %q not found", title)
	return -1
}
