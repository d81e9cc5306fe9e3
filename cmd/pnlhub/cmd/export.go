package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pnlhub/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export <id|email>",
	Short: "Export an account statement",
	Long: `Write an account's PnL statement as CSV or Org-mode.

Examples:
  pnlhub export jane@example.com
  pnlhub export jane@example.com --format org
  pnlhub export jane@example.com -o jane.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or org")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "org" {
		return fmt.Errorf("unknown format %q (want csv or org)", exportFormat)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.resolve(cmd, args[0])
	if err != nil {
		return err
	}

	switch {
	case exportFormat == "csv" && exportOutput != "":
		err = journal.WriteCSVFile(exportOutput, acct)
	case exportFormat == "csv":
		err = journal.WriteCSV(cmd.OutOrStdout(), acct)
	case exportOutput != "":
		err = os.WriteFile(exportOutput, []byte(journal.FormatAccountOrg(acct)), 0o644)
	default:
		_, err = fmt.Fprint(cmd.OutOrStdout(), journal.FormatAccountOrg(acct))
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if exportOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s statement to %s\n", exportFormat, exportOutput)
	}
	return nil
}
