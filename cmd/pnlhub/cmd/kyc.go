package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pnlhub/account"
)

var kycCmd = &cobra.Command{
	Use:   "kyc",
	Short: "Review KYC submissions",
}

var kycReviewCmd = &cobra.Command{
	Use:   "review <id|email> <verified|rejected>",
	Short: "Record the decision on submitted KYC documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runKYCReview,
}

func init() {
	rootCmd.AddCommand(kycCmd)
	kycCmd.AddCommand(kycReviewCmd)
}

func runKYCReview(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.resolve(cmd, args[0])
	if err != nil {
		return err
	}
	acct, err = a.desk.ReviewKYC(cmd.Context(), acct.User.ID, account.DocumentStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s KYC documents %s\n", acct.User.Email, acct.User.KYCDocuments.Status)
	return nil
}
