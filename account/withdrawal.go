package account

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotMonetized      = errors.New("account: withdrawals are disabled until the account is monetized")
	ErrNoApprovedAmount  = errors.New("account: no approved withdrawal amount")
	ErrWithdrawalPending = errors.New("account: withdrawal already requested")
	ErrWalletRequired    = errors.New("account: wallet address is required")
)

// MonetizedSplit is the trader's share of profits on a monetized account.
var MonetizedSplit = decimal.NewFromInt(80)

// PayoutSplit returns the profit share percentage.
func (u *User) PayoutSplit() decimal.Decimal {
	if u.Monetized {
		return MonetizedSplit
	}
	return decimal.Zero
}

// CanWithdraw returns nil when a withdrawal request would be accepted,
// ignoring the wallet address.
func (u *User) CanWithdraw() error {
	switch {
	case u.Banned:
		return ErrBanned
	case !u.Monetized:
		return ErrNotMonetized
	case u.WithdrawalRequested:
		return ErrWithdrawalPending
	case !u.ApprovedWithdrawalAmount.IsPositive():
		return ErrNoApprovedAmount
	}
	return nil
}

// RequestWithdrawal flags a withdrawal of the approved amount to wallet.
func (u *User) RequestWithdrawal(wallet string) error {
	if err := u.CanWithdraw(); err != nil {
		return err
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return ErrWalletRequired
	}
	u.WithdrawalRequested = true
	u.WalletAddress = wallet
	return nil
}
