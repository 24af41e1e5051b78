package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Columns is the CSV column header row.
var Columns = []string{"Sr No", "Date", "Remarks", "Debit", "Credit", "Balance"}

// Export is a read-only snapshot of a ledger handed to a writer.
type Export struct {
	Source       string // original file name, optional
	Transactions []models.TransactionRecord
}

// CSVWriter writes ledger snapshots to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the snapshot to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, exp Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, exp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the snapshot in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, exp Export) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if exp.Source != "" {
			writer.Write([]string{"# Source", exp.Source})
		}
		writer.Write([]string{"# Transactions", strconv.Itoa(len(exp.Transactions))})
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range exp.Transactions {
		row := []string{
			txn.SerialNumber,
			txn.Date,
			txn.Remarks,
			txn.Debit,
			txn.Credit,
			txn.Balance,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
