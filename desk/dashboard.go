package desk

import (
	"context"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/ledger"
	"github.com/shopspring/decimal"
)

// Dashboard is everything the user landing page shows.
type Dashboard struct {
	Account         account.Account
	ProgressPercent decimal.Decimal
	DrawdownPercent decimal.Decimal
	PassedTarget    bool
	RecentActivity  []ledger.Event
	Series          []ledger.Point
	KYC             account.DocumentStatus
	CanUploadKYC    bool
	ShowKYCBypass   bool
	PayoutSplit     decimal.Decimal
	WithdrawalError error
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	a, err := s.GetAccount(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return NewDashboard(a), nil
}

// NewDashboard computes the dashboard view for an already derived account.
func NewDashboard(a account.Account) Dashboard {
	u := a.User
	return Dashboard{
		Account:         a,
		ProgressPercent: a.ProgressPercent(),
		DrawdownPercent: a.DrawdownPercent(),
		PassedTarget:    a.HasPassedTarget(),
		RecentActivity:  a.RecentActivity(RecentActivityLimit),
		Series:          a.Series(),
		KYC:             u.EffectiveKYCStatus(),
		CanUploadKYC:    u.CanUpload(),
		ShowKYCBypass:   u.ShowBypass(),
		PayoutSplit:     u.PayoutSplit(),
		WithdrawalError: u.CanWithdraw(),
	}
}
