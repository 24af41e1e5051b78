package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/money"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

// EnvPassword supplies the PDF password when --password is not given.
const EnvPassword = "STATEMENT_PASSWORD"

type convertOptions struct {
	password    string
	output      string
	header      bool
	recalculate bool
	locale      string
}

func newConvertCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <input.pdf> [input2.pdf ...]",
		Short: "Extract statement PDFs to CSV",
		Example: `  # Password from the environment
  STATEMENT_PASSWORD=secret statement-ledger convert statement.pdf

  # Recalculate balances and choose the output path
  statement-ledger convert --password=secret --recalculate --output=april.csv statement.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return errors.New("--output can only be used with a single input file")
			}
			if opts.password == "" {
				opts.password = os.Getenv(EnvPassword)
			}
			f, err := money.NewFormatter(opts.locale)
			if err != nil {
				return err
			}
			for _, input := range args {
				if err := convertFile(cmd, input, opts, f); err != nil {
					return fmt.Errorf("processing %s: %w", input, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.password, "password", "", "PDF password (defaults to $"+EnvPassword+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output CSV path (defaults to the input name with .csv)")
	cmd.Flags().BoolVar(&opts.header, "header", true, "include metadata rows at the top of the CSV")
	cmd.Flags().BoolVar(&opts.recalculate, "recalculate", false, "re-derive balances from the first row before writing")
	cmd.Flags().StringVar(&opts.locale, "locale", money.DefaultLocale, "locale for recalculated amounts")

	return cmd
}

func convertFile(cmd *cobra.Command, inputPath string, opts convertOptions, f *money.Formatter) error {
	out := cmd.OutOrStdout()

	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Fprintf(out, "Processing: %s\n", inputPath)

	text, err := extractor.ExtractFile(cmd.Context(), inputPath, opts.password)
	if err != nil {
		return err
	}

	l := ledger.New(ledger.WithFormatter(f))
	l.Replace(parser.Extract(text))
	fmt.Fprintf(out, "  Found %d transaction(s)\n", l.Len())

	if l.Len() == 0 {
		fmt.Fprintln(out, "  Warning: No transactions found. The PDF layout may not match the expected row format.")
	} else if opts.recalculate {
		if err := l.RecalculateAll(); err != nil {
			return err
		}
		fmt.Fprintln(out, "  Recalculated balances")
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: opts.header}
	exp := writer.Export{Source: filepath.Base(inputPath), Transactions: l.Records()}
	if err := w.WriteToFile(outPath, exp); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Fprintf(out, "  Output: %s\n", outPath)
	printSummary(out, exp)
	return nil
}

func printSummary(out io.Writer, exp writer.Export) {
	if len(exp.Transactions) == 0 {
		return
	}
	first := exp.Transactions[0]
	last := exp.Transactions[len(exp.Transactions)-1]
	debits := 0
	for _, tx := range exp.Transactions {
		if tx.IsDebit() {
			debits++
		}
	}
	fmt.Fprintf(out, "  Period: %s to %s\n", first.Date, last.Date)
	fmt.Fprintf(out, "  Debits: %d, credits: %d\n", debits, len(exp.Transactions)-debits)
	fmt.Fprintf(out, "  Closing balance: %s\n", last.Balance)
}
