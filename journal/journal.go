// Package journal renders an account's PnL history as a statement, either
// CSV for spreadsheets or Org-mode for a trading journal.
package journal

import (
	"github.com/rustyeddy/pnlhub/account"
	"github.com/shopspring/decimal"
)

// Line is one statement row: a PnL event and the balance after it.
type Line struct {
	Date        string
	Amount      decimal.Decimal
	Description string
	Balance     decimal.Decimal
}

// Statement walks the history in entry order starting from the initial
// balance. The last line's balance always equals the account balance.
func Statement(a account.Account) []Line {
	bal := a.User.InitialBalance
	lines := make([]Line, 0, len(a.User.PnLHistory))
	for _, e := range a.User.PnLHistory {
		bal = bal.Add(e.Amount)
		lines = append(lines, Line{
			Date:        e.Date,
			Amount:      e.Amount,
			Description: e.Description,
			Balance:     bal,
		})
	}
	return lines
}
