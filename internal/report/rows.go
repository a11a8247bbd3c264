package report

import (
	"wb-ledger-bot/internal/ledger"
	"wb-ledger-bot/internal/types"
)

// columnSpec binds an output column to the ledger field it renders.
// shareOfSales marks money columns that get a percent-of-sales cell in
// the closing ratio row.
type columnSpec struct {
	title        string
	format       types.CellFormat
	value        func(e *types.LedgerEntry) any
	shareOfSales bool
}

var moneyColumns = []columnSpec{
	{title: "Количество заказов", format: types.FormatNumber,
		value: func(e *types.LedgerEntry) any { return e.OrdersCount }},
	{title: "Заказы", format: types.FormatCurrency,
		value: func(e *types.LedgerEntry) any { return e.OrdersAmount }},
	{title: "Выкупили, шт", format: types.FormatNumber,
		value: func(e *types.LedgerEntry) any { return e.SalesQuantity }},
	{title: "Продажи до СПП", format: types.FormatCurrency,
		value: func(e *types.LedgerEntry) any { return e.SalesAmount }},
	{title: "Возвраты", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.ReturnsAmount }},
	{title: "Комиссия", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.Commission }},
	{title: "Прямая логистика", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.ForwardLogistics }},
	{title: "Обратная логистика", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.ReverseLogistics }},
	{title: "Хранение", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.StorageFee }},
	{title: "Приемка", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.AcceptanceFee }},
	{title: "Штрафы", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.Penalty }},
	{title: "Корректировки", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.Adjustments }},
	{title: "Реклама", format: types.FormatCurrency, shareOfSales: true,
		value: func(e *types.LedgerEntry) any { return e.Advertising }},
	{title: "К перечислению", format: types.FormatCurrency,
		value: func(e *types.LedgerEntry) any { return e.ForPay }},
	{title: "Итого к оплате", format: types.FormatCurrency,
		value: func(e *types.LedgerEntry) any { return e.NetPayable }},
}

// dailyTable renders per-day entries plus a bold "Факт" totals row and a
// closing row showing each cost as a share of sales.
func dailyTable(entries map[types.Key]*types.LedgerEntry) types.Table {
	columns := []types.Column{{Title: "Дата", Format: types.FormatNone}}
	for _, spec := range moneyColumns {
		columns = append(columns, types.Column{Title: spec.title, Format: spec.format})
	}

	var rows [][]types.Cell
	for _, k := range ledger.SortedKeys(entries) {
		row := []types.Cell{{Value: k.Date}}
		row = append(row, entryCells(entries[k], false)...)
		rows = append(rows, row)
	}

	totals := ledger.Totals(entries)
	totalRow := []types.Cell{{Value: "Факт", Bold: true}}
	totalRow = append(totalRow, entryCells(&totals, true)...)
	rows = append(rows, totalRow)
	rows = append(rows, shareRow(&totals))

	return types.Table{
		Name:       "По дням",
		Columns:    columns,
		Rows:       rows,
		FreezeRows: 1,
		FreezeCols: 1,
		HeaderBold: true,
	}
}

// productTable renders per-product entries with the buyout and ad-spend
// ratios, plus a bold totals row.
func productTable(entries map[types.Key]*types.LedgerEntry) types.Table {
	columns := []types.Column{{Title: "Артикул", Format: types.FormatNumber}}
	for _, spec := range moneyColumns {
		columns = append(columns, types.Column{Title: spec.title, Format: spec.format})
	}
	columns = append(columns,
		types.Column{Title: "% выкупа", Format: types.FormatPercent},
		types.Column{Title: "% ДРР", Format: types.FormatPercent},
	)

	var rows [][]types.Cell
	for _, k := range ledger.SortedKeys(entries) {
		e := entries[k]
		row := []types.Cell{{Value: k.NmID, Format: types.FormatNumber}}
		row = append(row, entryCells(e, false)...)
		row = append(row,
			types.Cell{Value: e.BuyoutPct, Format: types.FormatPercent},
			types.Cell{Value: e.AdSpendRatio, Format: types.FormatPercent},
		)
		rows = append(rows, row)
	}

	totals := ledger.Totals(entries)
	totalRow := []types.Cell{{Value: "Факт", Bold: true}}
	totalRow = append(totalRow, entryCells(&totals, true)...)
	totalRow = append(totalRow,
		types.Cell{Value: totals.BuyoutPct, Format: types.FormatPercent, Bold: true},
		types.Cell{Value: totals.AdSpendRatio, Format: types.FormatPercent, Bold: true},
	)
	rows = append(rows, totalRow)

	return types.Table{
		Name:       "По товарам",
		Columns:    columns,
		Rows:       rows,
		FreezeRows: 1,
		FreezeCols: 1,
		HeaderBold: true,
	}
}

// unitTable renders per-day-per-product unit economics: one row per
// (date, product) pair with the same metric columns plus the ratios.
func unitTable(entries map[types.Key]*types.LedgerEntry) types.Table {
	columns := []types.Column{
		{Title: "Дата", Format: types.FormatNone},
		{Title: "Артикул", Format: types.FormatNumber},
	}
	for _, spec := range moneyColumns {
		columns = append(columns, types.Column{Title: spec.title, Format: spec.format})
	}
	columns = append(columns,
		types.Column{Title: "% выкупа", Format: types.FormatPercent},
		types.Column{Title: "% ДРР", Format: types.FormatPercent},
	)

	var rows [][]types.Cell
	for _, k := range ledger.SortedKeys(entries) {
		e := entries[k]
		row := []types.Cell{
			{Value: k.Date},
			{Value: k.NmID, Format: types.FormatNumber},
		}
		row = append(row, entryCells(e, false)...)
		row = append(row,
			types.Cell{Value: e.BuyoutPct, Format: types.FormatPercent},
			types.Cell{Value: e.AdSpendRatio, Format: types.FormatPercent},
		)
		rows = append(rows, row)
	}

	totals := ledger.Totals(entries)
	totalRow := []types.Cell{{Value: "Факт", Bold: true}, {}}
	totalRow = append(totalRow, entryCells(&totals, true)...)
	totalRow = append(totalRow,
		types.Cell{Value: totals.BuyoutPct, Format: types.FormatPercent, Bold: true},
		types.Cell{Value: totals.AdSpendRatio, Format: types.FormatPercent, Bold: true},
	)
	rows = append(rows, totalRow)

	return types.Table{
		Name:       "Юнит-экономика",
		Columns:    columns,
		Rows:       rows,
		FreezeRows: 1,
		FreezeCols: 2,
		HeaderBold: true,
	}
}

func entryCells(e *types.LedgerEntry, bold bool) []types.Cell {
	cells := make([]types.Cell, 0, len(moneyColumns))
	for _, spec := range moneyColumns {
		cells = append(cells, types.Cell{Value: spec.value(e), Format: spec.format, Bold: bold})
	}
	return cells
}

// shareRow expresses each cost column as a fraction of total sales.
// Columns where the ratio is meaningless stay blank.
func shareRow(totals *types.LedgerEntry) []types.Cell {
	row := []types.Cell{{Value: "% от продаж", Bold: true}}
	for _, spec := range moneyColumns {
		if !spec.shareOfSales || totals.SalesAmount == 0 {
			row = append(row, types.Cell{})
			continue
		}
		v, ok := spec.value(totals).(float64)
		if !ok {
			row = append(row, types.Cell{})
			continue
		}
		row = append(row, types.Cell{Value: v / totals.SalesAmount, Format: types.FormatPercent})
	}
	return row
}
