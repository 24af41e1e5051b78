package writer

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func sampleExport() Export {
	return Export{
		Source: "april.pdf",
		Transactions: []models.TransactionRecord{
			{SerialNumber: "1", Date: "01-04-2024", Remarks: "Salary Credit", Credit: "5,000.00", Balance: "15,000.00"},
			{SerialNumber: "2", Date: "02-04-2024", Remarks: "ATM Withdrawal DR", Debit: "2,000.00", Balance: "13,000.00"},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleExport()))

	output := buf.String()
	assert.Contains(t, output, "# Source,april.pdf")
	assert.Contains(t, output, "# Transactions,2")
	assert.Contains(t, output, "Sr No,Date,Remarks,Debit,Credit,Balance")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 2 metadata lines + 1 header + 2 transactions
	assert.Len(t, lines, 5)
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	require.NoError(t, w.Write(&buf, sampleExport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, []string{"1", "01-04-2024", "Salary Credit", "", "5,000.00", "15,000.00"}, records[1])
	assert.Equal(t, []string{"2", "02-04-2024", "ATM Withdrawal DR", "2,000.00", "", "13,000.00"}, records[2])
}

func TestCSVWriter_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, Export{}))

	assert.Equal(t, "# Transactions,0\nSr No,Date,Remarks,Debit,Credit,Balance\n", buf.String())
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{}
	require.NoError(t, w.WriteToFile(path, sampleExport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Sr No,Date"))
}

func TestCSVWriter_WriteToFileBadPath(t *testing.T) {
	w := &CSVWriter{}
	err := w.WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), sampleExport())
	assert.Error(t, err)
}
