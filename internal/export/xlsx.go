package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"stmtview/internal/domain"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

// WriteXLSX writes s to out as a workbook with a Summary and a Transactions sheet.
// Every value is written as text; amounts are display strings, not numbers.
func WriteXLSX(out io.Writer, s *domain.NormalizedStatement) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	values := summaryValues(s)
	for i, label := range summaryLabels {
		row := i + 1
		if err := setRow(f, summarySheet, row, []string{label, values[i]}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summaryLabels)), bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("sizing summary: %w", err)
	}

	if err := setRow(f, transactionsSheet, 1, transactionColumns); err != nil {
		return err
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "C1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	for i, tx := range s.Transactions {
		if err := setRow(f, transactionsSheet, i+2, transactionRow(tx)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(transactionsSheet, "B", "B", 48); err != nil {
		return fmt.Errorf("sizing transactions: %w", err)
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
