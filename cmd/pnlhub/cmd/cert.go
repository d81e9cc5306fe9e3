package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Issue and list passing certificates",
}

var certIssueCmd = &cobra.Command{
	Use:   "issue <id|email>",
	Short: "Issue the next certificate to an eligible account",
	Args:  cobra.ExactArgs(1),
	RunE:  runCertIssue,
}

var certListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every certificate ever issued",
	Args:  cobra.NoArgs,
	RunE:  runCertList,
}

func init() {
	rootCmd.AddCommand(certCmd)
	certCmd.AddCommand(certIssueCmd)
	certCmd.AddCommand(certListCmd)
}

func runCertIssue(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.resolve(cmd, args[0])
	if err != nil {
		return err
	}
	c, err := a.desk.IssueCertificate(cmd.Context(), acct.User.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Issued %s to %s (account size %s, %s)\n",
		c.CertificateNumber, c.UserName, c.AccountSize.StringFixed(2), c.DateIssued)
	return nil
}

func runCertList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	certs, err := a.desk.ListCertificates(cmd.Context())
	if err != nil {
		return err
	}
	if len(certs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No certificates")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tNAME\tACCOUNT SIZE\tISSUED\tUSER")
	for _, c := range certs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.CertificateNumber, c.UserName, c.AccountSize.StringFixed(2), c.DateIssued, c.UserID)
	}
	return tw.Flush()
}
