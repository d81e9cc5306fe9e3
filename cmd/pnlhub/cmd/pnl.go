package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pnlhub/ledger"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Record PnL entries",
}

var pnlAddCmd = &cobra.Command{
	Use:   "add <id|email> <amount>",
	Short: "Append a PnL entry to an account",
	Long: `Append one signed PnL entry. The date defaults to today in the
configured ledger timezone. Negative amounts go after "--".

Examples:
  pnlhub pnl add jane@example.com 125.50
  pnlhub pnl add jane@example.com --date 2024-01-09 --desc "stopped out" -- -40`,
	Args: cobra.ExactArgs(2),
	RunE: runPnLAdd,
}

var (
	pnlDate string
	pnlDesc string
)

func init() {
	rootCmd.AddCommand(pnlCmd)
	pnlCmd.AddCommand(pnlAddCmd)

	pnlAddCmd.Flags().StringVar(&pnlDate, "date", "", "entry date YYYY-MM-DD (default today)")
	pnlAddCmd.Flags().StringVar(&pnlDesc, "desc", "", "optional description")
}

func runPnLAdd(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
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
	date := pnlDate
	if date == "" {
		date = ledger.DateKey(a.desk.Today())
	}
	acct, err = a.desk.AddPnL(cmd.Context(), acct.User.ID, ledger.Event{
		Date:        date,
		Amount:      amount,
		Description: pnlDesc,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s on %s: balance %s, today %s\n",
		acct.User.Email, amount.StringFixed(2), date,
		acct.Balance.StringFixed(2), acct.TodaysPnL.StringFixed(2))
	return nil
}
