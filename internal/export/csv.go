package export

import (
	"encoding/csv"
	"io"

	"stmtview/internal/domain"
)

// BOM is the UTF-8 byte order mark written ahead of CSV output for Excel on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// summaryLabels lists the statement summary labels in display order.
var summaryLabels = []string{
	"Bank",
	"Last 4 Digits",
	"Statement Date",
	"Billing Cycle Start",
	"Billing Cycle End",
	"Payment Due Date",
	"Total Balance",
	"Minimum Due",
}

// transactionColumns defines the transaction table header.
var transactionColumns = []string{"Date", "Description", "Amount"}

// CSVWriter wraps csv.Writer for exporting a normalized statement.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteStatement writes the summary block, a blank separator row and the
// transaction table. Transactions keep their statement order.
func (w *CSVWriter) WriteStatement(s *domain.NormalizedStatement) error {
	values := summaryValues(s)
	for i, label := range summaryLabels {
		if err := w.csv.Write([]string{label, values[i]}); err != nil {
			return err
		}
	}
	if err := w.csv.Write([]string{""}); err != nil {
		return err
	}
	if err := w.csv.Write(transactionColumns); err != nil {
		return err
	}
	for _, tx := range s.Transactions {
		if err := w.csv.Write(transactionRow(tx)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// WriteCSV writes s to out as BOM-prefixed CSV.
func WriteCSV(out io.Writer, s *domain.NormalizedStatement) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewCSVWriter(out)
	if err := w.WriteStatement(s); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func summaryValues(s *domain.NormalizedStatement) []string {
	return []string{
		s.Bank,
		s.Last4,
		s.StatementDate,
		s.BillingCycleStart,
		s.BillingCycleEnd,
		s.PaymentDueDate,
		s.TotalBalance,
		s.MinimumDue,
	}
}

func transactionRow(tx domain.Transaction) []string {
	return []string{tx.Date, tx.Description, tx.Amount}
}
