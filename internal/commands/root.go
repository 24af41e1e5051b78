package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "statement-ledger",
		Short: "Turn password-protected bank statement PDFs into an editable ledger",
		Long: `statement-ledger reads password-protected bank statement PDFs, extracts
each "<serial> <DD-MM-YYYY> <remarks> <amount> ₹ <balance>" row, and keeps
running balances consistent while rows are edited or removed.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConvertCommand())

	return rootCmd
}
