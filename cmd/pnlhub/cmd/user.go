package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/journal"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage trader accounts",
	Long: `Create, list, show and delete trader accounts.

Users are addressed by ID or email.

Examples:
  pnlhub user add --email jane@example.com --password s3cret --balance 10000 --target 800
  pnlhub user list
  pnlhub user show jane@example.com
  pnlhub user delete 01HMX...`,
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a trader account",
	Args:  cobra.NoArgs,
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with derived balances",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userShowCmd = &cobra.Command{
	Use:   "show <id|email>",
	Short: "Print an account statement in Org-mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id|email>",
	Short: "Delete an account and its PnL history",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

var (
	userName      string
	userEmail     string
	userPassword  string
	userBalance   string
	userTarget    string
	userMonetized bool
	userKYC       string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userDeleteCmd)

	userAddCmd.Flags().StringVar(&userName, "name", "", "display name (default: email local part)")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "login email (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "login password (required)")
	userAddCmd.Flags().StringVar(&userBalance, "balance", "0", "initial balance")
	userAddCmd.Flags().StringVar(&userTarget, "target", "0", "profit target")
	userAddCmd.Flags().BoolVar(&userMonetized, "monetized", false, "account receives the payout split")
	userAddCmd.Flags().StringVar(&userKYC, "kyc", string(account.KYCVerified), "KYC status: verified or not-verified")
	userAddCmd.MarkFlagRequired("email")
	userAddCmd.MarkFlagRequired("password")
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	balance, err := decimal.NewFromString(userBalance)
	if err != nil {
		return fmt.Errorf("invalid --balance %q: %w", userBalance, err)
	}
	target, err := decimal.NewFromString(userTarget)
	if err != nil {
		return fmt.Errorf("invalid --target %q: %w", userTarget, err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.desk.CreateUser(cmd.Context(), account.Profile{
		Name:           userName,
		Email:          userEmail,
		Password:       userPassword,
		InitialBalance: balance,
		ProfitTarget:   target,
		Monetized:      userMonetized,
		KYCStatus:      account.KYCStatus(userKYC),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s (%s) balance %s\n", acct.User.Email, acct.User.ID, acct.Balance.StringFixed(2))
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	accts, err := a.desk.ListAccounts(cmd.Context())
	if err != nil {
		return err
	}
	if len(accts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tBALANCE\tACHIEVED\tTODAY\tSTATUS")
	for _, acct := range accts {
		status := "active"
		if acct.User.Banned {
			status = "banned"
		} else if acct.HasPassedTarget() {
			status = "passed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			acct.User.ID,
			acct.User.Email,
			acct.Balance.StringFixed(2),
			acct.AchievedProfit.StringFixed(2),
			acct.TodaysPnL.StringFixed(2),
			status,
		)
	}
	return tw.Flush()
}

func runUserShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.resolve(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatAccountOrg(acct))
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.resolve(cmd, args[0])
	if err != nil {
		return err
	}
	if err := a.desk.DeleteUser(cmd.Context(), acct.User.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s (%d PnL entries)\n", acct.User.Email, len(acct.User.PnLHistory))
	return nil
}
