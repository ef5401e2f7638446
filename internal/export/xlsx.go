// Package export renders a user's ledger as an XLSX workbook, one row
// per record with both calendar dates.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/nepali"
)

const sheetName = "Transactions"

var headers = []string{
	"Date (AD)", "Date (BS)", "Type", "Category", "Sub-category",
	"Note", "Amount", "Currency", "Scope",
}

// WriteXLSX writes the records to w as a spreadsheet. Records arrive
// in ledger order and are written as-is. The Bikram Sambat column is
// left blank for dates outside the conversion range.
func WriteXLSX(w io.Writer, records []core.FinancialRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range records {
		bs := ""
		if nd, err := nepali.FromGregorian(r.OccurredOn.Time()); err == nil {
			bs = nd.String()
		}

		row := []any{
			r.OccurredOn.Key(),
			bs,
			string(r.Kind),
			r.Category,
			r.SubCategory,
			r.Note,
			r.Amount.Units(),
			string(r.Currency),
			string(r.Scope),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
