package account

import (
	"time"

	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Account is a user together with the ledger state derived for a given day.
type Account struct {
	User *User
	ledger.State
	Today time.Time
}

// NewAccount derives u's ledger state for today.
func NewAccount(u *User, today time.Time) Account {
	return Account{
		User:  u,
		State: ledger.Derive(u.InitialBalance, u.PnLHistory, today),
		Today: today,
	}
}

// HasPassedTarget is true when the admin marked the evaluation passed or
// the achieved profit reached the target.
func (a Account) HasPassedTarget() bool {
	return a.User.Passed || a.AchievedProfit.GreaterThanOrEqual(a.User.ProfitTarget)
}

// ProgressPercent is achieved profit as a share of the target, capped at 100.
func (a Account) ProgressPercent() decimal.Decimal {
	target := a.User.ProfitTarget
	if !target.IsPositive() {
		return decimal.Zero
	}
	p := a.AchievedProfit.Div(target).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// DrawdownPercent is how far the balance sits below the initial balance.
func (a Account) DrawdownPercent() decimal.Decimal {
	initial := a.User.InitialBalance
	if !initial.IsPositive() || !a.Balance.LessThan(initial) {
		return decimal.Zero
	}
	return initial.Sub(a.Balance).Div(initial).Mul(hundred)
}

// RecentActivity returns up to n of the latest events, newest first.
func (a Account) RecentActivity(n int) []ledger.Event {
	h := a.User.PnLHistory
	n = min(max(n, 0), len(h))
	out := make([]ledger.Event, 0, n)
	for i := len(h) - 1; i >= len(h)-n; i-- {
		out = append(out, h[i])
	}
	return out
}

// Series labels the trailing window for charting.
func (a Account) Series() []ledger.Point {
	return a.State.Series(a.Today)
}
