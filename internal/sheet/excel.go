package sheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"wb-ledger-bot/internal/interfaces"
	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/types"
)

const (
	currencyFormat = "#,##0.00 ₽"
	percentFormat  = "0.00%"
	numberFormat   = "#,##0"
)

// ExcelSink renders a report into an xlsx workbook, one sheet per
// table.
type ExcelSink struct {
	path string
}

var _ interfaces.RowSink = (*ExcelSink)(nil)

func NewExcelSink(path string) *ExcelSink {
	return &ExcelSink{path: path}
}

func (s *ExcelSink) Write(ctx context.Context, report *types.Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return "", fmt.Errorf("build styles: %w", err)
	}

	for _, table := range report.Tables {
		if err := writeTable(f, styles, table); err != nil {
			return "", fmt.Errorf("write sheet %q: %w", table.Name, err)
		}
	}

	// The workbook opens on the first report sheet, not the default one.
	if len(report.Tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return "", fmt.Errorf("drop default sheet: %w", err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	logger.Info(ctx, "workbook written",
		"path", s.path, "shop", report.ShopName, "sheets", len(report.Tables))
	return s.path, nil
}

// styleSet caches the style ids the sink reuses across every cell.
type styleSet struct {
	header   int
	styles   map[types.CellFormat]int
	boldFor  map[types.CellFormat]int
	boldBase int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	bold := &excelize.Font{Bold: true}

	header, err := f.NewStyle(&excelize.Style{Font: bold})
	if err != nil {
		return nil, err
	}
	boldBase := header

	formats := map[types.CellFormat]string{
		types.FormatNumber:   numberFormat,
		types.FormatCurrency: currencyFormat,
		types.FormatPercent:  percentFormat,
	}
	plain := make(map[types.CellFormat]int)
	boldFor := make(map[types.CellFormat]int)
	for format, code := range formats {
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return nil, err
		}
		plain[format] = id
		boldID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code, Font: bold})
		if err != nil {
			return nil, err
		}
		boldFor[format] = boldID
	}

	return &styleSet{header: header, styles: plain, boldFor: boldFor, boldBase: boldBase}, nil
}

func (ss *styleSet) cellStyle(c types.Cell) (int, bool) {
	if c.Bold {
		if id, ok := ss.boldFor[c.Format]; ok {
			return id, true
		}
		return ss.boldBase, true
	}
	id, ok := ss.styles[c.Format]
	return id, ok
}

func writeTable(f *excelize.File, styles *styleSet, table types.Table) error {
	if _, err := f.NewSheet(table.Name); err != nil {
		return err
	}

	for col, column := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table.Name, cell, column.Title); err != nil {
			return err
		}
		if table.HeaderBold {
			if err := f.SetCellStyle(table.Name, cell, cell, styles.header); err != nil {
				return err
			}
		}
	}

	for r, row := range table.Rows {
		for col, c := range row {
			if c.Value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(table.Name, cell, c.Value); err != nil {
				return err
			}
			if id, ok := styles.cellStyle(c); ok {
				if err := f.SetCellStyle(table.Name, cell, cell, id); err != nil {
					return err
				}
			}
		}
	}

	if table.FreezeRows > 0 || table.FreezeCols > 0 {
		topLeft, err := excelize.CoordinatesToCellName(table.FreezeCols+1, table.FreezeRows+1)
		if err != nil {
			return err
		}
		if err := f.SetPanes(table.Name, &excelize.Panes{
			Freeze:      true,
			XSplit:      table.FreezeCols,
			YSplit:      table.FreezeRows,
			TopLeftCell: topLeft,
			ActivePane:  "bottomRight",
		}); err != nil {
			return err
		}
	}
	return nil
}
