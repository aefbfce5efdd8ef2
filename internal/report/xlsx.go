package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

const (
	expensesSheet = "Expenses"
	summarySheet  = "Summary"
)

// WriteXLSX writes a workbook with the detailed expenses (newest first) and
// the per-category summary.
func WriteXLSX(w io.Writer, expenses []core.Expense, s ledger.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{Palette[0]}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(f, expensesSheet, 1, []any{"Date", "Category", "Description", "Amount"}); err != nil {
		return err
	}
	for i, e := range expenses {
		if err := writeRow(f, expensesSheet, i+2, []any{e.Date.String(), e.Category, e.Description, e.Amount.InexactFloat64()}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(expensesSheet, "A1", "D1", header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(expensesSheet, "A", "B", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(expensesSheet, "C", "C", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, []any{"Category", "Amount", "Percent"}); err != nil {
		return err
	}
	row := 2
	for _, c := range s.ByCategory {
		pct := s.Percent(c.Amount)
		if err := writeRow(f, summarySheet, row, []any{c.Name, c.Amount.InexactFloat64(), pct / 100}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, summarySheet, row+1, []any{"TOTAL", s.Total.InexactFloat64()}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if row > 2 {
		percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
		if err != nil {
			return fmt.Errorf("create percent style: %w", err)
		}
		if err := f.SetCellStyle(summarySheet, "C2", fmt.Sprintf("C%d", row-1), percent); err != nil {
			return fmt.Errorf("style percentages: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
