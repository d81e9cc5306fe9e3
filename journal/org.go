package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/pnlhub/account"
)

// FormatAccountOrg renders a as an Org-mode block. Ledger figures go in a
// PROPERTIES drawer for search and the history follows as a table.
func FormatAccountOrg(a account.Account) string {
	u := a.User
	var b strings.Builder
	fmt.Fprintf(&b, "** Account: %s (%s)\n", u.Name, shortID(u.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", u.ID)
	fmt.Fprintf(&b, ":EMAIL: %s\n", u.Email)
	fmt.Fprintf(&b, ":AS_OF: %s\n", a.Today.Format("2006-01-02"))
	fmt.Fprintf(&b, ":INITIAL_BALANCE: %s\n", money(u.InitialBalance))
	fmt.Fprintf(&b, ":BALANCE: %s\n", money(a.Balance))
	fmt.Fprintf(&b, ":ACHIEVED_PROFIT: %s\n", money(a.AchievedProfit))
	fmt.Fprintf(&b, ":PROFIT_TARGET: %s\n", money(u.ProfitTarget))
	fmt.Fprintf(&b, ":TODAYS_PNL: %s\n", money(a.TodaysPnL))
	last7 := make([]string, 0, len(a.Last7Days))
	for _, v := range a.Last7Days {
		last7 = append(last7, money(v))
	}
	fmt.Fprintf(&b, ":LAST_7_DAYS: %s\n", strings.Join(last7, " "))
	b.WriteString(":END:\n")
	b.WriteString("\n")

	b.WriteString("*** History\n")
	lines := Statement(a)
	if len(lines) == 0 {
		b.WriteString("- no entries\n")
		return b.String()
	}
	b.WriteString("| Date | Amount | Description | Balance |\n")
	b.WriteString("|------+--------+-------------+---------|\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			l.Date, money(l.Amount), orgCell(l.Description), money(l.Balance))
	}
	return b.String()
}

// FormatAccountsOrg renders several accounts separated by blank lines.
func FormatAccountsOrg(accts []account.Account) string {
	var b strings.Builder
	for i, a := range accts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatAccountOrg(a))
	}
	return b.String()
}

// orgCell keeps a description from breaking the table row.
func orgCell(s string) string {
	return strings.NewReplacer("|", "/", "\n", " ").Replace(s)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
