package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}

func TestConvert_RequiresInput(t *testing.T) {
	_, err := run(t, "convert")
	assert.Error(t, err)
}

func TestConvert_RejectsNonPDF(t *testing.T) {
	_, err := run(t, "convert", filepath.Join(t.TempDir(), "statement.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected .pdf file")
}

func TestConvert_OutputWithMultipleInputs(t *testing.T) {
	_, err := run(t, "convert", "--output", "x.csv", "a.pdf", "b.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single input")
}

func TestConvert_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := run(t, "convert", "--password", "pw", path)
	assert.ErrorIs(t, err, extractor.ErrEmptyInput)
}

func TestConvert_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	t.Setenv(EnvPassword, "pw")
	_, err := run(t, "convert", path)
	assert.ErrorIs(t, err, extractor.ErrWrongPasswordOrCorrupt)
}

func TestConvert_BadLocale(t *testing.T) {
	_, err := run(t, "convert", "--locale", "not a locale!", "a.pdf")
	assert.Error(t, err)
}

func TestServe_BadConfig(t *testing.T) {
	_, err := run(t, "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestConvert_UnsupportedLocale(t *testing.T) {
	_, err := run(t, "convert", "--locale", "de", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported locale")
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	t.Setenv(config.EnvAddr, "")
	path := filepath.Join(t.TempDir(), "statement-ledger.yaml")

	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", "--force", path)
	assert.NoError(t, err)
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, writer.Export{Transactions: []models.TransactionRecord{
		{SerialNumber: "1", Date: "01-04-2024", Credit: "5,000.00", Balance: "15,000.00"},
		{SerialNumber: "2", Date: "02-04-2024", Debit: "2,000.00", Balance: "13,000.00"},
		{SerialNumber: "3", Date: "03-04-2024", Debit: "500.00", Balance: "12,500.00"},
	}})

	assert.Equal(t,
		"  Period: 01-04-2024 to 03-04-2024\n"+
			"  Debits: 2, credits: 1\n"+
			"  Closing balance: 12,500.00\n",
		out.String())

	out.Reset()
	printSummary(&out, writer.Export{})
	assert.Empty(t, out.String())
}
